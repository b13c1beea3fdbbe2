package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	ServerPort string

	DatabaseDSN string

	JWTSecret           string
	JWTExpiresIn        string
	JWTRefreshExpiresIn string

	CORSOrigin      string
	RateLimitMax    int
	RateLimitWindow time.Duration

	MailProvider string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string
	FrontendURL  string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		Env:        getEnv("ENV", "dev"),
		ServerPort: getEnv("SERVER_PORT", ":3000"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		JWTSecret:           os.Getenv("JWT_SECRET"),
		JWTExpiresIn:        getEnv("JWT_EXPIRES_IN", "15m"),
		JWTRefreshExpiresIn: getEnv("JWT_REFRESH_EXPIRES_IN", "7d"),

		CORSOrigin:      getEnv("CORS_ORIGIN", "http://localhost:3001"),
		RateLimitMax:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitWindow: time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MS", 900000)) * time.Millisecond,

		MailProvider: getEnv("MAIL_PROVIDER", "smtp"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getEnv("MAIL_FROM", "noreply@flyup.dev"),
		MailFromName: getEnv("MAIL_FROM_NAME", "Blog Service"),
		FrontendURL:  getEnv("FRONTEND_URL", "http://localhost:3001"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "mail.events"),
		KafkaGroupID:  getEnv("KAFKA_GROUP_ID", "mail-service"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s is not a number, using default %d", key, fallback)
		return fallback
	}
	return n
}
