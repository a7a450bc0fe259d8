package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	JWT       JWTConfig       `mapstructure:"jwt"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Mail      MailConfig      `mapstructure:"mail"`
	Worker    WorkerConfig    `mapstructure:"worker"`
}

type ServerConfig struct {
	Port       string `mapstructure:"port"`
	Mode       string `mapstructure:"mode"`
	CORSOrigin string `mapstructure:"cors_origin"`
	// MaxUploadMB caps multipart attachment uploads.
	MaxUploadMB int64 `mapstructure:"max_upload_mb"`
	// AuthPerMinute is the per-IP budget for register and login.
	AuthPerMinute int `mapstructure:"auth_per_minute"`
}

type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // mysql, postgres, sqlite
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"` // sqlite file
}

type JWTConfig struct {
	Secret   string `mapstructure:"secret"`
	TTLHours int    `mapstructure:"ttl_hours"`
	Issuer   string `mapstructure:"issuer"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Output     string `mapstructure:"output"` // stdout, file
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	OverdueCron string `mapstructure:"overdue_cron"`
}

type StorageConfig struct {
	Provider string `mapstructure:"provider"` // filesystem, s3, minio
	Bucket   string `mapstructure:"bucket"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
	ID       string `mapstructure:"id"`
	Secret   string `mapstructure:"secret"`
}

type MailConfig struct {
	Provider string `mapstructure:"provider"` // none, mailgun
	Domain   string `mapstructure:"domain"`
	Key      string `mapstructure:"key"`
	From     string `mapstructure:"from"`
	// Notify sends an email copy of every in-app notification.
	Notify bool `mapstructure:"notify"`
}

type WorkerConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.max_upload_mb", 20)
	v.SetDefault("server.auth_per_minute", 10)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "projectflow")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.path", "projectflow.db")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl_hours", 24)
	v.SetDefault("jwt.issuer", "projectflow")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.overdue_cron", "0 * * * *")
	v.SetDefault("storage.provider", "filesystem")
	v.SetDefault("storage.bucket", "public/uploads")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.id", "")
	v.SetDefault("storage.secret", "")
	v.SetDefault("mail.provider", "none")
	v.SetDefault("mail.domain", "")
	v.SetDefault("mail.key", "")
	v.SetDefault("mail.from", "")
	v.SetDefault("mail.notify", false)
	v.SetDefault("worker.pool_size", 16)
}

// Load reads .env, then config.yaml, then environment variables (SERVER_PORT, DATABASE_DRIVER, ...).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/projectflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		log.Printf("Warning: config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
