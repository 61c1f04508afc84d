package cliparse

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	ConfigFile   string
	InputFile    string
	OutputFile   string
	LogLevel     slog.Level
	Limits       Limits
}

// Limits bound the work a single request may ask for
type Limits struct {
	MaxProjects       int           `toml:"max_projects"`
	MaxVoters         int           `toml:"max_voters"`
	Timeout           time.Duration `toml:"-"`
	TimeoutMS         int           `toml:"timeout_ms"`
	MaxBodyBytes      int64         `toml:"max_body_bytes"`
	AuditMaxGroupSize int           `toml:"audit_max_group_size"`
}

// DefaultLimits are used when no config file is given
func DefaultLimits() Limits {
	return Limits{
		MaxProjects:       200,
		MaxVoters:         100_000,
		Timeout:           10 * time.Second,
		TimeoutMS:         10_000,
		MaxBodyBytes:      8 << 20,
		AuditMaxGroupSize: 10,
	}
}

type configFile struct {
	Limits Limits `toml:"limits"`
}

// ParseFlags validates flags and fills in env fallbacks and defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	fs := flag.NewFlagSet("quickly-fund", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL for the run archive (optional)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.ConfigFile, "c", "", "TOML file with request limits")
	fs.StringVar(&cfg.InputFile, "i", "", "Allocate the instance in this JSON file and exit")
	fs.StringVar(&cfg.OutputFile, "o", "", "With -i, also export the outcome as an xlsx workbook")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q (use sqlite or postgres)", cfg.DatabaseType)
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return Config{}, fmt.Errorf("invalid log level %q", logLevel)
		}
	}

	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv("CONFIG_FILE")
	}
	if cfg.OutputFile != "" && cfg.InputFile == "" {
		return Config{}, errors.New("-o requires -i")
	}

	cfg.Limits = DefaultLimits()
	if cfg.ConfigFile != "" {
		limits, err := LoadLimits(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Limits = limits
	}

	return cfg, nil
}

// LoadLimits reads the [limits] table of a TOML file.
// Keys left out keep their defaults.
func LoadLimits(path string) (Limits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("failed to read config file: %w", err)
	}

	file := configFile{Limits: DefaultLimits()}
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return Limits{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	l := file.Limits
	if l.MaxProjects < 1 || l.MaxVoters < 1 || l.TimeoutMS < 1 || l.MaxBodyBytes < 1 || l.AuditMaxGroupSize < 1 {
		return Limits{}, fmt.Errorf("config file %s: limits must be positive", path)
	}
	l.Timeout = time.Duration(l.TimeoutMS) * time.Millisecond
	return l, nil
}
