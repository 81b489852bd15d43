package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	Env         string `env:"APP_ENV" default:"dev"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	BaseURL     string `env:"APP_BASE_URL" default:"http://localhost:8080"`
	UploadDir   string `env:"UPLOAD_DIR" default:"static/uploads"`
	RedisAddr   string `env:"REDIS_ADDR"`

	// SMTP for the password-reset mail. Empty host disables sending.
	MailHost   string `env:"MAIL_SERVER"`
	MailPort   string `env:"MAIL_PORT" default:"587"`
	MailUser   string `env:"MAIL_USERNAME"`
	MailPass   string `env:"MAIL_PASSWORD"`
	MailSender string `env:"MAIL_DEFAULT_SENDER"`

	// Seeded on first boot when no admin account exists.
	AdminEmail    string `env:"ADMIN_EMAIL" default:"admin@bookstore.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" default:"admin123"`
}
