package config

import (
	"fmt"
	"os"
)

// Config holds every runtime setting the server reads from the environment.
type Config struct {
	ServerPort string

	DatabaseURL string

	JWTSecret  []byte
	AdminEmail string

	RazorpayKeyID     string
	RazorpayKeySecret string

	UPIPayeeVPA  string
	UPIPayeeName string

	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	RedisAddr string

	UploadsDir string
	BackupDir  string
}

func Load() *Config {
	return &Config{
		ServerPort:        getEnvOrDefault("PORT", "8080"),
		DatabaseURL:       buildDatabaseURL(),
		JWTSecret:         []byte(getEnvOrDefault("JWT_SECRET", "")),
		AdminEmail:        getEnvOrDefault("ADMIN_EMAIL", "admin@electrostore.com"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		UPIPayeeVPA:       getEnvOrDefault("UPI_VPA", "electrostore@upi"),
		UPIPayeeName:      getEnvOrDefault("UPI_PAYEE_NAME", "ElectroStore"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIAPIURL:      getEnvOrDefault("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		UploadsDir:        getEnvOrDefault("UPLOADS_DIR", "./uploads"),
		BackupDir:         getEnvOrDefault("BACKUP_DIR", "./backup/uploads"),
	}
}

// PaymentDemoMode reports whether the Razorpay integration should run without
// a real gateway account. Missing keys means every gateway order is synthetic.
func (c *Config) PaymentDemoMode() bool {
	return c.RazorpayKeyID == "" || c.RazorpayKeySecret == ""
}

func (c *Config) ChatbotEnabled() bool {
	return c.OpenAIAPIKey != ""
}

func buildDatabaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnvOrDefault("DB_HOST", "localhost"),
		getEnvOrDefault("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnvOrDefault("DB_NAME", "electrostore"),
		getEnvOrDefault("DB_PORT", "5432"),
	)
}

func getEnvOrDefault(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}
