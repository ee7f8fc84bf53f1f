package config

import (
	"encoding/json"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager holds the application configuration and provides thread-safe access
// to it.
type Manager struct {
	mu     sync.RWMutex
	config *Config
	path   string
}

// NewManager creates a new Manager.
func NewManager(config *Config, path string) *Manager {
	return &Manager{config: config, path: path}
}

// Get returns the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// Path returns the config file path this manager was loaded from.
func (m *Manager) Path() string {
	return m.path
}

// Update replaces the configuration.
func (m *Manager) Update(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldConfig := m.config
	m.config = config

	if oldConfig != nil {
		slog.Debug("Configuration updated",
			"threshold_changed", oldConfig.Matching.Threshold != config.Matching.Threshold,
			"auto_organize_changed", oldConfig.Matching.AutoOrganize != config.Matching.AutoOrganize,
			"telegram_enabled_changed", oldConfig.Telegram.Enabled != config.Telegram.Enabled,
			"logger_level_changed", oldConfig.Logger.Level != config.Logger.Level,
		)
	}
}

// Save writes the current configuration back to its file.
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return saveConfig(m.path, m.config)
}

// redactedCfg gets a redacted copy of the Config.
func (m *Manager) redactedCfg() Config {
	cfgCpy := *m.Get()
	if cfgCpy.Spotify.ClientSecret != "" {
		cfgCpy.Spotify.ClientSecret = "<redacted>"
	}
	if cfgCpy.Telegram.Token != "" {
		cfgCpy.Telegram.Token = "<redacted>"
	}
	return cfgCpy
}

// GetJSON returns the current configuration as a JSON string.
func (m *Manager) GetJSON() string {
	jsonBytes, err := json.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to JSON", "error", err)
		return err.Error()
	}
	return string(jsonBytes)
}

// GetYAML returns the current configuration as a YAML string.
func (m *Manager) GetYAML() string {
	yamlBytes, err := yaml.Marshal(m.redactedCfg())
	if err != nil {
		slog.Error("failed to marshal config to YAML", "error", err)
		return err.Error()
	}
	return string(yamlBytes)
}
