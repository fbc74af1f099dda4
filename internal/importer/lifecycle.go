package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// lifecycle переносит обработанный файл в processed или failed и пишет строку в журнал.
// Сбои переноса и журнала не влияют на результат обработки.
type lifecycle struct {
	processedDir string
	failedDir    string
	journal      *zap.Logger
}

func (l *lifecycle) processed(path string, rows int) {
	moveFile(path, l.processedDir)
	l.journal.Info(fmt.Sprintf("file %s processed successfully (%d rows)", filepath.Base(path), rows))
}

func (l *lifecycle) failed(path string, err error) {
	moveFile(path, l.failedDir)
	l.journal.Error(fmt.Sprintf("file %s: %s", filepath.Base(path), err))
}

// moveFile переносит файл в каталог с тем же именем, заменяя существующий.
// Если rename не удался (другой раздел), файл копируется и удаляется.
func moveFile(from, toDir string) {
	dest := filepath.Join(toDir, filepath.Base(from))
	if err := os.Rename(from, dest); err == nil {
		return
	}

	src, err := os.Open(from)
	if err != nil {
		return
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return
	}
	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dest)
		return
	}
	src.Close()
	os.Remove(from)
}
