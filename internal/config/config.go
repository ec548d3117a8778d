// Package config provides configuration loading and validation for the CLI
// and the preview server.
package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/jonathan/cv-generator/internal/export"
	"github.com/jonathan/cv-generator/internal/media"
	"github.com/jonathan/cv-generator/internal/rendering"
	"github.com/jonathan/cv-generator/internal/storage"
	"github.com/jonathan/cv-generator/internal/validation"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. CVGEN_SERVER_PORT
const EnvPrefix = "CVGEN"

// Config aggregates settings sourced from defaults, an optional config
// file and CVGEN_* environment variables, in increasing precedence.
type Config struct {
	Storage StorageConfig     `mapstructure:"storage"`
	Floors  validation.Floors `mapstructure:"floors"`
	Export  ExportConfig      `mapstructure:"export"`
	Render  RenderConfig      `mapstructure:"render"`
	Media   MediaConfig       `mapstructure:"media"`
	Server  ServerConfig      `mapstructure:"server"`
}

// StorageConfig locates the local key-value store
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
	Key string `mapstructure:"key"`
}

// ExportConfig selects and tunes the PDF engine
type ExportConfig struct {
	Engine     string        `mapstructure:"engine"`
	Timeout    time.Duration `mapstructure:"timeout"`
	ChromePath string        `mapstructure:"chrome_path"`

	// Retention and MaxJobs bound the finished background exports the
	// server keeps downloadable
	Retention time.Duration `mapstructure:"retention"`
	MaxJobs   int           `mapstructure:"max_jobs"`
}

// RenderConfig selects the label set printed on the page
type RenderConfig struct {
	Labels string `mapstructure:"labels"`
}

// MediaConfig bounds uploaded images
type MediaConfig struct {
	MaxImageBytes int64 `mapstructure:"max_image_bytes"`
}

// ServerConfig contains HTTP preview server settings
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig throttles the PDF export routes per client
type RateLimitConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Limit   int           `mapstructure:"limit"`
	Burst   int           `mapstructure:"burst"`
	Window  time.Duration `mapstructure:"window"`
}

var storageKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Load reads configuration from path (skipped when empty) and the
// environment, then validates it.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	floors := validation.DefaultFloors()
	return &Config{
		Storage: StorageConfig{Dir: ".cvgen", Key: storage.DocumentKey},
		Floors:  floors,
		Export: ExportConfig{
			Engine:    export.EngineChromedp,
			Timeout:   export.DefaultTimeout,
			Retention: export.DefaultRetention,
			MaxJobs:   export.DefaultMaxJobs,
		},
		Render:  RenderConfig{Labels: rendering.Spanish.Lang},
		Media:   MediaConfig{MaxImageBytes: media.DefaultMaxImageBytes},
		Server: ServerConfig{
			Port:      8080,
			RateLimit: RateLimitConfig{Enabled: true, Limit: 10, Burst: 3, Window: time.Minute},
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("floors.skills", d.Floors.Skills)
	v.SetDefault("floors.education", d.Floors.Education)
	v.SetDefault("floors.work_experience", d.Floors.WorkExperience)
	v.SetDefault("floors.roles", d.Floors.Roles)
	v.SetDefault("floors.languages", d.Floors.Languages)
	v.SetDefault("export.engine", d.Export.Engine)
	v.SetDefault("export.timeout", d.Export.Timeout)
	v.SetDefault("export.chrome_path", d.Export.ChromePath)
	v.SetDefault("export.retention", d.Export.Retention)
	v.SetDefault("export.max_jobs", d.Export.MaxJobs)
	v.SetDefault("render.labels", d.Render.Labels)
	v.SetDefault("media.max_image_bytes", d.Media.MaxImageBytes)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.rate_limit.enabled", d.Server.RateLimit.Enabled)
	v.SetDefault("server.rate_limit.limit", d.Server.RateLimit.Limit)
	v.SetDefault("server.rate_limit.burst", d.Server.RateLimit.Burst)
	v.SetDefault("server.rate_limit.window", d.Server.RateLimit.Window)
}

// Validate checks that the configuration has usable values
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return fmt.Errorf("config error: 'storage.dir' is required")
	}
	if !storageKeyPattern.MatchString(c.Storage.Key) {
		return fmt.Errorf("config error: 'storage.key' must match %s", storageKeyPattern)
	}

	floors := map[string]int{
		"skills":          c.Floors.Skills,
		"education":       c.Floors.Education,
		"work_experience": c.Floors.WorkExperience,
		"roles":           c.Floors.Roles,
		"languages":       c.Floors.Languages,
	}
	for name, n := range floors {
		if n < 0 {
			return fmt.Errorf("config error: 'floors.%s' must be non-negative", name)
		}
	}

	if !slices.Contains(export.EngineNames(), c.Export.Engine) {
		return fmt.Errorf("config error: 'export.engine' must be one of %s", strings.Join(export.EngineNames(), ", "))
	}
	if c.Export.Timeout <= 0 {
		return fmt.Errorf("config error: 'export.timeout' must be positive")
	}
	if c.Export.Retention <= 0 {
		return fmt.Errorf("config error: 'export.retention' must be positive")
	}
	if c.Export.MaxJobs <= 0 {
		return fmt.Errorf("config error: 'export.max_jobs' must be positive")
	}
	if _, ok := rendering.LabelsFor(c.Render.Labels); !ok {
		return fmt.Errorf("config error: 'render.labels' must be one of %s", strings.Join(rendering.LabelCodes(), ", "))
	}
	if c.Media.MaxImageBytes <= 0 {
		return fmt.Errorf("config error: 'media.max_image_bytes' must be positive")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.Limit <= 0 || rl.Window <= 0) {
		return fmt.Errorf("config error: 'server.rate_limit' needs a positive limit and window when enabled")
	}
	return nil
}

// Labels returns the configured label set
func (c *Config) Labels() rendering.Labels {
	l, ok := rendering.LabelsFor(c.Render.Labels)
	if !ok {
		return rendering.Spanish
	}
	return l
}

// EngineOptions returns the options for the configured PDF engine
func (c *Config) EngineOptions() export.EngineOptions {
	return export.EngineOptions{Timeout: c.Export.Timeout, ChromePath: c.Export.ChromePath}
}
