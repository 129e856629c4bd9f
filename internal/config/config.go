package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/pfotenwerk/backoffice/pkg/logger"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every env-sourced setting. Only this struct may be used to
// read configuration; no direct os.Getenv access elsewhere.
type Config struct {
	AppEnv   string `env:"APP_ENV" default:"dev"`
	AppName  string `env:"APP_NAME" default:"backoffice"`
	AppDebug bool   `env:"APP_DEBUG" default:"1"`

	HttpListenAddr string `env:"HTTP_LISTEN_ADDR" validation:"mustExists"`

	JWTSecret       string `env:"JWT_SECRET"`
	JWTAccessTTLMin int    `env:"JWT_ACCESS_TTL_MIN" default:"60"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX"`

	PromNamespace string `env:"PROM_NAMESPACE"`

	MailQueueName          string        `env:"MAIL_QUEUE_NAME" default:"emails"`
	MailQueueConsumerGroup string        `env:"MAIL_QUEUE_CONSUMER_GROUP" default:"notifier"`
	MailQueueConsumerName  string        `env:"MAIL_QUEUE_CONSUMER_NAME"`
	MailQueueMaxRetries    int           `env:"MAIL_QUEUE_MAX_RETRIES" default:"3"`
	MailQueueVisibility    time.Duration `env:"MAIL_QUEUE_VISIBILITY_TIMEOUT"`
	MailQueuePollInterval  time.Duration `env:"MAIL_QUEUE_POLL_INTERVAL"`
	MailQueueBatchSize     int64         `env:"MAIL_QUEUE_BATCH_SIZE"`
	MailQueueMaxLen        int64         `env:"MAIL_QUEUE_MAX_LEN"`
	MailQueueEnableDLQ     bool          `env:"MAIL_QUEUE_ENABLE_DLQ" default:"1"`
	MailWorkers            int           `env:"MAIL_WORKERS" default:"4"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" default:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" default:"office@pfotenwerk.example"`

	SettingsCacheTTL time.Duration `env:"SETTINGS_CACHE_TTL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		if err = godotenv.Load(path); err != nil {
			return errors.New("failed to load configuration file " + path + " error: " + err.Error())
		}
	}

	if _, err = env.UnmarshalFromEnviron(c); err != nil {
		return errors.New("failed to map env variables to Configuration object error: " + err.Error())
	}

	config = c
	return nil
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
