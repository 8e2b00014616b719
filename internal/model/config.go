package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig locates the local database.
type StorageConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// MailConfig configures delivery of reminders into an IMAP mailbox.
// The password is read from the system keyring, never from this file.
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	From     string `mapstructure:"from" yaml:"from"`
	To       string `mapstructure:"to" yaml:"to"`
}

// NotificationConfig controls reminder scheduling and delivery.
type NotificationConfig struct {
	// Authorized grants the local notification center permission to
	// accept reminders.
	Authorized bool `mapstructure:"authorized" yaml:"authorized"`

	// PollIntervalSec is how often the dispatcher checks for due reminders.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`

	Mail MailConfig `mapstructure:"mail" yaml:"mail"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	UpcomingLimit int `mapstructure:"upcoming_limit" yaml:"upcoming_limit"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Debug       bool   `mapstructure:"debug" yaml:"debug"`
	Development bool   `mapstructure:"development" yaml:"development"`
	File        string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage       StorageConfig      `mapstructure:"storage" yaml:"storage"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
	Log           LogConfig          `mapstructure:"log" yaml:"log"`
}

// configDir returns ~/.config/taskventure, or "." when the home directory
// cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "taskventure")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskventure/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultDBPath returns ~/.config/taskventure/taskventure.db.
func DefaultDBPath() string {
	return filepath.Join(configDir(), "taskventure.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			DBPath: DefaultDBPath(),
		},
		Notifications: NotificationConfig{
			Authorized:      true,
			PollIntervalSec: 30,
			Mail: MailConfig{
				Port:    "993",
				TLS:     true,
				Mailbox: "Reminders",
			},
		},
		Display: DisplayConfig{
			UpcomingLimit: 5,
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// Environment variables prefixed with TASKVENTURE_ override file values.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("taskventure")
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	def := defaultAppConfig()
	v.SetDefault("storage.db_path", def.Storage.DBPath)
	v.SetDefault("notifications.authorized", def.Notifications.Authorized)
	v.SetDefault("notifications.poll_interval_sec", def.Notifications.PollIntervalSec)
	v.SetDefault("notifications.mail.port", def.Notifications.Mail.Port)
	v.SetDefault("notifications.mail.tls", def.Notifications.Mail.TLS)
	v.SetDefault("notifications.mail.mailbox", def.Notifications.Mail.Mailbox)
	v.SetDefault("display.upcoming_limit", def.Display.UpcomingLimit)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Notifications.PollIntervalSec <= 0 {
		cfg.Notifications.PollIntervalSec = def.Notifications.PollIntervalSec
	}
	if cfg.Display.UpcomingLimit <= 0 {
		cfg.Display.UpcomingLimit = def.Display.UpcomingLimit
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
