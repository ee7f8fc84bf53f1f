package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file from the given path and returns a new Manager.
// If the file doesn't exist, creates a default configuration.
func Load(path string) (*Manager, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Info("Config file not found, creating default configuration", "path", path)
		defaultCfg := createDefaultConfig()
		if err := saveConfig(path, defaultCfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		applyEnvOverrides(defaultCfg)
		return NewManager(defaultCfg, path), nil
	}

	cfg, err := readConfig(path)
	if err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return NewManager(cfg, path), nil
}

func readConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if id := os.Getenv("SPOTIFY_CLIENT_ID"); id != "" {
		cfg.Spotify.ClientID = id
	}
	if secret := os.Getenv("SPOTIFY_CLIENT_SECRET"); secret != "" {
		cfg.Spotify.ClientSecret = secret
	}
	if token := os.Getenv("TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}
}

// createDefaultConfig creates a new Config with sensible default values.
func createDefaultConfig() *Config {
	return &Config{
		Spotify: Spotify{
			ClientID:     "", // From https://developer.spotify.com/dashboard
			ClientSecret: "",
			RedirectURI:  "http://localhost:3939/auth/callback",
			TokenPath:    "./spotify_token.json",
		},
		Matching: Matching{
			Threshold:        0.4,
			LikedTracksLimit: 50,
			PlaylistLimit:    50,
			SampleSize:       50,
			CacheTTLMinutes:  60,
			AutoOrganize: AutoOrganize{
				Enabled:         false,
				IntervalMinutes: 360,
				DryRun:          true,
			},
		},
		Server: Server{
			PrintRoutes: false,
			Port:        3939,
		},
		Logger: Logger{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		Database: Database{
			Path: "./sortify.db",
		},
		Jobs: Jobs{
			Log:     true,
			LogPath: "./logs/jobs",
		},
		Telegram: Telegram{
			Enabled:      false,
			Token:        "", // Can be obtained with https://t.me/BotFather
			AllowedUsers: []string{},
		},
	}
}

// saveConfig writes a configuration to the specified file path.
func saveConfig(path string, cfg *Config) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()
	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	slog.Info("Configuration saved", "path", path)
	return nil
}
