package config

import "path/filepath"

// Config - каталоги обработки файлов.
type Config struct {
	ImportDir    string
	ProcessedDir string
	FailedDir    string
	LogsDir      string
}

// FromRoot раскладывает каталоги внутри одного корня хранилища.
func FromRoot(root string) Config {
	return Config{
		ImportDir:    filepath.Join(root, "import"),
		ProcessedDir: filepath.Join(root, "processed"),
		FailedDir:    filepath.Join(root, "failed"),
		LogsDir:      filepath.Join(root, "logs"),
	}
}
