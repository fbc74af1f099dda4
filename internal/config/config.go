package config

import (
	"errors"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	handlerConfig "github.com/iurnickita/wbsales/internal/handler/config"
	importerConfig "github.com/iurnickita/wbsales/internal/importer/config"
	loggerConfig "github.com/iurnickita/wbsales/internal/logger/config"
	serviceConfig "github.com/iurnickita/wbsales/internal/service/config"
	storeConfig "github.com/iurnickita/wbsales/internal/store/config"
	tokenConfig "github.com/iurnickita/wbsales/internal/token/config"
)

type Config struct {
	Handler  handlerConfig.Config
	Service  serviceConfig.Config
	Importer importerConfig.Config
	Store    storeConfig.Config
	Logger   loggerConfig.Config
	Token    tokenConfig.Config
}

const (
	maxUploadSize = 20 << 20
	tokenExp      = 24 * time.Hour
)

var ErrNoDatabase = errors.New("database DSN is not set")

// GetConfig читает конфигурацию из .env, флагов командной строки и окружения.
// При ошибке печатает подсказку и завершает процесс.
func GetConfig() Config {
	cfg, err := Parse(os.Args[0], os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	return cfg
}

// Parse разбирает флаги; переменные окружения имеют приоритет над флагами.
func Parse(name string, args []string) (Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	serverAddr := fs.String("a", "localhost:8080", "server address")
	dbDsn := fs.String("d", "", "database DSN")
	storageRoot := fs.String("s", "storage", "storage root for import/processed/failed/logs")
	logLevel := fs.String("l", "info", "log level")
	secret := fs.String("k", "", "token secret key")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	envOverride(serverAddr, "RUN_ADDRESS")
	envOverride(dbDsn, "DATABASE_URI")
	envOverride(storageRoot, "STORAGE_ROOT")
	envOverride(logLevel, "LOG_LEVEL")
	envOverride(secret, "TOKEN_SECRET")

	if *dbDsn == "" {
		return Config{}, ErrNoDatabase
	}
	// без ключа токены живут до перезапуска
	if *secret == "" {
		*secret = uuid.NewString()
	}

	// Файлы и заголовки multipart укладываются в два документа с запасом
	var cfg Config
	cfg.Handler.ServerAddr = *serverAddr
	cfg.Handler.MaxRequestSize = 2*maxUploadSize + 1<<20
	cfg.Service.MaxUploadSize = maxUploadSize
	cfg.Importer = importerConfig.FromRoot(*storageRoot)
	cfg.Store.DBDsn = *dbDsn
	cfg.Logger.LogLevel = *logLevel
	cfg.Token.SecretKey = *secret
	cfg.Token.TokenExp = tokenExp
	return cfg, nil
}

func envOverride(value *string, key string) {
	if env, ok := os.LookupEnv(key); ok && env != "" {
		*value = env
	}
}
