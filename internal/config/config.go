package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	DB        DBConfig        `mapstructure:"db"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Reminders ReminderConfig  `mapstructure:"reminders"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

type DBConfig struct {
	URL string `mapstructure:"url"`
}

type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	// PasswordHash is a bcrypt hash and wins over Password when both are set.
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

type TwilioConfig struct {
	AccountSID     string `mapstructure:"account_sid"`
	AuthToken      string `mapstructure:"auth_token"`
	WhatsAppNumber string `mapstructure:"whatsapp_number"`
}

type DashboardConfig struct {
	APIBaseURL   string        `mapstructure:"api_base_url"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type ReminderConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	FirstAfter      time.Duration `mapstructure:"first_after"`
	SecondAfter     time.Duration `mapstructure:"second_after"`
	NoResponseAfter time.Duration `mapstructure:"no_response_after"`
}

// Load reads config.yaml (if present) and FOLLOWUP_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.order-followup/")
	v.AddConfigPath("/etc/order-followup/")

	v.SetEnvPrefix("FOLLOWUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.url", "")
	v.SetDefault("admin.jwt_secret", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("twilio.whatsapp_number", "")
	v.SetDefault("dashboard.api_base_url", "http://localhost:8080")
	v.SetDefault("dashboard.poll_interval", 30*time.Second)
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.first_after", 5*time.Minute)
	v.SetDefault("reminders.second_after", 24*time.Hour)
	v.SetDefault("reminders.no_response_after", 48*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		// running purely off env vars is fine
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
