package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

func Load() App {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := App{
		Port:        getenv("APP_PORT", "8080"),
		Env:         getenv("APP_ENV", "dev"),
		DatabaseURL: must("DATABASE_URL"),
		JWTSecret:   getenv("JWT_SECRET", "local_dev_secret"),
		BaseURL:     getenv("APP_BASE_URL", "http://localhost:8080"),
		UploadDir:   getenv("UPLOAD_DIR", "static/uploads"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		MailHost:   os.Getenv("MAIL_SERVER"),
		MailPort:   getenv("MAIL_PORT", "587"),
		MailUser:   os.Getenv("MAIL_USERNAME"),
		MailPass:   os.Getenv("MAIL_PASSWORD"),
		MailSender: getenv("MAIL_DEFAULT_SENDER", os.Getenv("MAIL_USERNAME")),

		AdminEmail:    getenv("ADMIN_EMAIL", "admin@bookstore.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "admin123"),
	}
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("required env missing", "key", k)
		panic("missing env " + k)
	}
	return v
}
