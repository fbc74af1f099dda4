package config

type Config struct {
	// предельный размер одного загружаемого файла, байт
	MaxUploadSize int64
}
