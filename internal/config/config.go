package config

import (
	"os"
	"strconv"
)

type Config struct {
	AI    AIConfig    `json:"ai"`
	Clerk ClerkConfig `json:"clerk"`
	Mail  MailConfig  `json:"mail"`
	Share ShareConfig `json:"share"`
	Mocks MockConfig  `json:"mocks"`
}

type AIConfig struct {
	Provider string `json:"provider"` // "openai", "gemini" or "mock"
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

type ClerkConfig struct {
	SecretKey  string `json:"secret_key"`
	SignInURL  string `json:"sign_in_url"`
	SignUpURL  string `json:"sign_up_url"`
	SignOutURL string `json:"sign_out_url"`
}

func (c ClerkConfig) Enabled() bool {
	return c.SecretKey != ""
}

type MailConfig struct {
	SendGridKey string `json:"sendgrid_key"`
	FromEmail   string `json:"from_email"`
	FromName    string `json:"from_name"`
}

func (c MailConfig) Enabled() bool {
	return c.SendGridKey != ""
}

type ShareConfig struct {
	BaseURL string `json:"base_url"`
}

type MockConfig struct {
	Enable bool   `json:"enable"`
	UserID string `json:"user_id"`
}

func Load() (*Config, error) {
	config := &Config{
		AI: AIConfig{
			Provider: getEnvOrDefault("AI_PROVIDER", "openai"),
			APIKey:   os.Getenv("AI_API_KEY"),
			Model:    os.Getenv("AI_MODEL"),
		},
		Clerk: ClerkConfig{
			SecretKey:  os.Getenv("CLERK_SECRET_KEY"),
			SignInURL:  os.Getenv("CLERK_SIGNIN_URL"),
			SignUpURL:  os.Getenv("CLERK_SIGNUP_URL"),
			SignOutURL: os.Getenv("CLERK_SIGNOUT_URL"),
		},
		Mail: MailConfig{
			SendGridKey: os.Getenv("SENDGRID_API_KEY"),
			FromEmail:   getEnvOrDefault("MAIL_FROM", "noreply@tinymealplanner.com"),
			FromName:    getEnvOrDefault("MAIL_FROM_NAME", "Tiny Meal Planner"),
		},
		Share: ShareConfig{
			BaseURL: getEnvOrDefault("SHARE_BASE_URL", "https://tinymealplanner.com"),
		},
		Mocks: MockConfig{
			Enable: boolEnv("ENABLE_MOCKS"),
			UserID: os.Getenv("MOCK_USER_ID"),
		},
	}

	// Without a generation key the app degrades to the mock provider rather
	// than erroring on every request.
	if config.AI.APIKey == "" && config.AI.Provider != "mock" {
		config.AI.Provider = "mock"
	}

	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
