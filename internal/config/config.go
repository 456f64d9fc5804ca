package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverRedis  = "redis"
)

type Config struct {
	Env      string `env:"ENV" env-default:"local"`
	Store    StoreConfig
	Mail     MailConfig
	HTTP     HTTPConfig
	Reminder ReminderConfig
}

type StoreConfig struct {
	Driver         string `env:"STORE_DRIVER" env-default:"sqlite"`
	SQLitePath     string `env:"SQLITE_PATH" env-default:"./task_manager.db"`
	RedisURL       string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"teamwork"`
}

type MailConfig struct {
	CredentialsPath string        `env:"MAIL_CONFIG_PATH" env-default:"./mail.yaml"`
	SMTPHost        string        `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	SMTPPort        int           `env:"SMTP_PORT" env-default:"465"`
	Timeout         time.Duration `env:"SMTP_TIMEOUT" env-default:"10s"`
}

type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type ReminderConfig struct {
	// Interval of 0 disables scheduled reminders.
	Interval   time.Duration `env:"REMINDER_INTERVAL" env-default:"24h"`
	WindowDays int           `env:"REMINDER_WINDOW_DAYS" env-default:"2"`
}
