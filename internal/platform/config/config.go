package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config concentra toda la configuración del servicio.
// Se carga desde env vars (y .env si existe, para dev local).
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Si DB_DSN viene vacío, el router cae a repos in-memory (modo dev).
	DBDSN string `env:"DB_DSN"`

	// Secreto HS256 para verificar tokens del identity provider.
	// Si viene vacío, el middleware queda en modo dev (X-Debug-User-ID).
	AuthSecret string `env:"AUTH_SECRET"`

	// Redis opcional: cache de resolución de terapeuta por paciente.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Object storage (MinIO / S3-compatible). Opcional en dev:
	// sin endpoint, los signed links devuelven "link unavailable".
	MinioEndpoint  string `env:"MINIO_ENDPOINT"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`

	// TTL por defecto de las signed URLs (lectura de media privada).
	SignedURLTTL time.Duration `env:"SIGNED_URL_TTL" envDefault:"10m"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	AppName   string `env:"APP_NAME" envDefault:"therapy-journal"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Port = strings.TrimSpace(cfg.Port)
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = 10 * time.Minute
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	p := strings.TrimPrefix(c.Port, ":")
	return ":" + p
}
