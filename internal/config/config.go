// Package config loads and validates scanner configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/editalradar/editalradar/internal/opportunity"
	"github.com/editalradar/editalradar/internal/score"
)

// DefaultMarkers is the marker-keyword set applied when neither the
// global scan config nor a source profile overrides it.
var DefaultMarkers = []string{
	"chamada", "edital", "seleção", "selecao", "bolsas", "fomento",
	"convocatória", "convocatoria",
}

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig                `mapstructure:"server"`
	Scan     ScanConfig                  `mapstructure:"scan"`
	HTTP     HTTPConfig                  `mapstructure:"http"`
	Headless HeadlessConfig              `mapstructure:"headless"`
	Storage  StorageConfig               `mapstructure:"storage"`
	DB       DBConfig                    `mapstructure:"db"`
	PubSub   PubSubConfig                `mapstructure:"pubsub"`
	Logging  LoggingConfig               `mapstructure:"logging"`
	Sources  []opportunity.SourceProfile `mapstructure:"sources"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// ScanConfig governs the discovery pipeline.
type ScanConfig struct {
	Concurrency    int      `mapstructure:"concurrency"`
	UserAgent      string   `mapstructure:"user_agent"`
	Markers        []string `mapstructure:"markers"`
	MinScore       int      `mapstructure:"min_score"`
	HighConfidence int      `mapstructure:"high_confidence"`
	MinTitleLength int      `mapstructure:"min_title_length"`
	ExcerptLength  int      `mapstructure:"excerpt_length"`
}

// HTTPConfig configures the plain fetch collaborator.
type HTTPConfig struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds"`
	RespectRobots  bool `mapstructure:"respect_robots"`
}

// HeadlessConfig configures the headless rendering subsystem.
type HeadlessConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxParallel   int  `mapstructure:"max_parallel"`
	NavTimeoutSec int  `mapstructure:"nav_timeout_seconds"`
	MinHTMLBytes  int  `mapstructure:"min_html_bytes"`
}

// StorageConfig sets the raw-markup snapshot destination.
type StorageConfig struct {
	Provider    string `mapstructure:"provider"`
	BaseDir     string `mapstructure:"base_dir"`
	GCSBucket   string `mapstructure:"gcs_bucket"`
	Prefix      string `mapstructure:"prefix"`
	ContentType string `mapstructure:"content_type"`
}

// DBConfig controls the canonical-key history store.
type DBConfig struct {
	Provider string `mapstructure:"provider"`
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
}

// PubSubConfig holds metadata for scan-completion notifications.
type PubSubConfig struct {
	ProjectID string `mapstructure:"project_id"`
	TopicName string `mapstructure:"topic_name"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("EDITALRADAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("scan.concurrency", 4)
	v.SetDefault("scan.user_agent", "editalradar/0.1")
	v.SetDefault("scan.markers", DefaultMarkers)
	v.SetDefault("scan.min_score", score.DefaultMinScore)
	v.SetDefault("scan.high_confidence", score.DefaultHighConfidence)
	v.SetDefault("scan.min_title_length", 10)
	v.SetDefault("scan.excerpt_length", 240)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.respect_robots", true)
	v.SetDefault("headless.enabled", false)
	v.SetDefault("headless.max_parallel", 1)
	v.SetDefault("headless.nav_timeout_seconds", 25)
	v.SetDefault("headless.min_html_bytes", 2048)
	v.SetDefault("storage.provider", "noop")
	v.SetDefault("storage.prefix", "pages")
	v.SetDefault("storage.content_type", "text/html; charset=utf-8")
	v.SetDefault("db.provider", "memory")
	v.SetDefault("db.table", "opportunity_keys")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Scan.Concurrency <= 0 {
		return fmt.Errorf("scan.concurrency must be > 0")
	}
	if c.Scan.MinScore < 0 {
		return fmt.Errorf("scan.min_score must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Headless.Enabled && c.Headless.MaxParallel <= 0 {
		return fmt.Errorf("headless.max_parallel must be > 0 when headless is enabled")
	}
	if c.Storage.Provider == "gcs" && c.Storage.GCSBucket == "" {
		return fmt.Errorf("storage.gcs_bucket must be set for the gcs provider")
	}
	if c.DB.Provider == "postgres" && c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set for the postgres provider")
	}
	seen := make(map[string]struct{}, len(c.Sources))
	for i, src := range c.Sources {
		if strings.TrimSpace(src.Name) == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
		if strings.TrimSpace(src.URL) == "" {
			return fmt.Errorf("source %q: url is required", src.Name)
		}
		if _, dup := seen[src.Name]; dup {
			return fmt.Errorf("source %q: duplicate name", src.Name)
		}
		seen[src.Name] = struct{}{}
	}
	return nil
}

// FetchTimeout converts the HTTP timeout config into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// MarkersFor resolves the marker set for one source profile.
func (c Config) MarkersFor(src opportunity.SourceProfile) []string {
	if len(src.Markers) > 0 {
		return src.Markers
	}
	if len(c.Scan.Markers) > 0 {
		return c.Scan.Markers
	}
	return DefaultMarkers
}

// MinScoreFor resolves the relevance threshold for one source profile.
func (c Config) MinScoreFor(src opportunity.SourceProfile) int {
	if src.MinScore > 0 {
		return src.MinScore
	}
	return c.Scan.MinScore
}
