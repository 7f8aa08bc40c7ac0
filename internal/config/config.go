// Package config provides layered configuration for the usms-records pipeline.
//
// Configuration is resolved in order of precedence (low to high): built-in
// defaults, an optional YAML file named by the USMS_CONFIG environment
// variable, then USMS_-prefixed environment variables. Command-line flags are
// seeded from the resolved configuration, so a flag set on the command line
// always wins.
package config

import "errors"

// Configuration validation errors.
var (
	ErrInvalidDelay    = errors.New("delay_seconds must not be negative")
	ErrInvalidTimeout  = errors.New("timeout_seconds must be at least 1")
	ErrInvalidRetries  = errors.New("max_retries must not be negative")
	ErrNoCourses       = errors.New("at least one course is required")
	ErrNoBaseURL       = errors.New("base_url must not be empty")
	ErrInvalidLogLevel = errors.New("log_level must be one of: debug, info, warn, error")
)

// Config contains pipeline configuration.
type Config struct {
	// Team is the default club abbreviation (e.g. COLM). Commands that
	// require a team still accept --team to override or supply it.
	Team string `koanf:"team"`

	// LMSC is the Local Masters Swimming Committee ID ("55" is South Carolina).
	LMSC string `koanf:"lmsc"`

	// Courses lists the course codes scraped by default.
	Courses []string `koanf:"courses"`

	// BaseURL is the USMS top-ten results endpoint.
	BaseURL string `koanf:"base_url"`

	// DelaySeconds is the pause between consecutive result queries.
	DelaySeconds float64 `koanf:"delay_seconds"`

	// TimeoutSeconds bounds a single HTTP fetch.
	TimeoutSeconds int `koanf:"timeout_seconds"`

	// MaxRetries caps retry attempts for transient fetch failures.
	MaxRetries int `koanf:"max_retries"`

	// CSVDir, JSONDir, and WebDataDir are the pipeline directories.
	CSVDir     string `koanf:"csv_dir"`
	JSONDir    string `koanf:"json_dir"`
	WebDataDir string `koanf:"web_data_dir"`

	// Collection is the Firestore collection name used in import bundles.
	Collection string `koanf:"collection"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LMSC:           "55",
		Courses:        []string{"SCY", "SCM", "LCM"},
		BaseURL:        "https://www.usms.org/comp/meets/toptenlocal.php",
		DelaySeconds:   2.0,
		TimeoutSeconds: 30,
		MaxRetries:     3,
		CSVDir:         "./data/csv",
		JSONDir:        "./data/json",
		WebDataDir:     "./web/public/data",
		Collection:     "teamRecords",
		LogLevel:       "info",
	}
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	if c.DelaySeconds < 0 {
		return ErrInvalidDelay
	}
	if c.TimeoutSeconds < 1 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if len(c.Courses) == 0 {
		return ErrNoCourses
	}
	if c.BaseURL == "" {
		return ErrNoBaseURL
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
