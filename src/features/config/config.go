package config

// Config holds the application configuration.
type Config struct {
	Spotify  Spotify  `yaml:"spotify"`
	Matching Matching `yaml:"matching"`
	Server   Server   `yaml:"server"`
	Logger   Logger   `yaml:"logger"`
	Database Database `yaml:"database"`
	Jobs     Jobs     `yaml:"jobs"`
	Telegram Telegram `yaml:"telegram"`
}

// Spotify holds the OAuth client configuration. ClientID and ClientSecret can
// also come from SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET.
type Spotify struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri" validate:"required"`
	TokenPath    string `yaml:"token_path" validate:"required"`
}

// Matching holds the tunables of the matching engine.
type Matching struct {
	Threshold        float64      `yaml:"threshold" validate:"gte=0,lte=1"`
	LikedTracksLimit int          `yaml:"liked_tracks_limit" validate:"gt=0"`
	PlaylistLimit    int          `yaml:"playlist_limit" validate:"gt=0"`
	SampleSize       int          `yaml:"sample_size" validate:"gt=0"`
	CacheTTLMinutes  int          `yaml:"cache_ttl_minutes" validate:"gt=0"`
	AutoOrganize     AutoOrganize `yaml:"auto_organize"`
}

// AutoOrganize holds the scheduled organize run settings.
type AutoOrganize struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
	DryRun          bool `yaml:"dry_run"`
}

// Server holds the configuration for the Fiber server.
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging.
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

// Database holds the configuration for the match-history database.
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Jobs holds the configuration for job logging.
type Jobs struct {
	Log     bool   `yaml:"log"`
	LogPath string `yaml:"log_path"`
}

// Telegram holds the bot configuration.
type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
}
