package config

type Config struct {
	ServerAddr string
	// предельный размер тела запроса с документами, байт
	MaxRequestSize int64
}
