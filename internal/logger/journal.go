package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	journalTimeLayout = "2006-01-02 15:04"
	journalFileLayout = "2006-01-02"
)

// NewJournal создает журнал обработки файлов выгрузок.
// Каждый день пишется в свой файл <dir>/<YYYY-MM-DD>.log, строка имеет вид
// "[YYYY-MM-DD HH:MM] LEVEL: сообщение". Ошибки записи молча игнорируются.
func NewJournal(dir string, clock zapcore.Clock) *zap.Logger {
	if clock == nil {
		clock = zapcore.DefaultClock
	}
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:    "ts",
		LevelKey:   "level",
		MessageKey: "msg",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString("[" + t.Format(journalTimeLayout) + "]")
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(l.CapitalString() + ":")
		},
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	})
	core := zapcore.NewCore(encoder, &dailyFile{dir: dir, clock: clock}, zapcore.DebugLevel)
	return zap.New(core, zap.WithClock(clock), zap.ErrorOutput(zapcore.AddSync(io.Discard)))
}

// dailyFile дописывает в файл текущего дня.
type dailyFile struct {
	dir   string
	clock zapcore.Clock
}

func (f *dailyFile) Write(p []byte) (int, error) {
	name := filepath.Join(f.dir, f.clock.Now().Format(journalFileLayout)+".log")
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return len(p), nil
	}
	defer file.Close()
	file.Write(p)
	return len(p), nil
}

func (f *dailyFile) Sync() error {
	return nil
}
