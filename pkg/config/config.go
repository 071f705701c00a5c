package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nicktill/heartbridge/pkg/export"
	"github.com/nicktill/heartbridge/pkg/logger"
)

// Server defaults
const (
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 8888
	DefaultFormat    = "csv"
	DefaultLogLevel  = "info"
	DefaultRetention = 90 * 24 * time.Hour
	MinPort          = 1024
	MaxPort          = 65535
)

// Maintenance intervals
const (
	BadgerGCInterval    = 10 * time.Minute
	LedgerPruneSchedule = "@daily"
)

// HTTP timeouts
const (
	ReadTimeout     = 30 * time.Second
	WriteTimeout    = 60 * time.Second
	IdleTimeout     = 120 * time.Second
	ShutdownTimeout = 10 * time.Second
	LedgerTimeout   = 5 * time.Second
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "HEARTBRIDGE"

// Error codes embedded in validation failures.
const (
	CodeInvalidFormat    = "invalid_format"
	CodeInvalidPort      = "invalid_port"
	CodeInvalidLogLevel  = "invalid_log_level"
	CodeInvalidRetention = "invalid_retention"
)

// ErrHelp is returned when -h/--help was requested.
var ErrHelp = pflag.ErrHelp

// Config holds the resolved runtime configuration.
type Config struct {
	Directory       string
	Format          export.Format
	Host            string
	Port            int
	LogLevel        string
	LegacyDayFirst  bool
	LedgerPath      string
	LedgerRetention time.Duration
	// ConfigFile is the config file actually read, if any.
	ConfigFile string
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load resolves configuration from defaults, an optional config file, a .env
// file, HEARTBRIDGE_* environment variables and finally args, in increasing
// order of precedence. args excludes the program name.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("heartbridge", pflag.ContinueOnError)
	flags.String("directory", "", "Output directory for exported files. Created if missing. Defaults to the current directory.")
	flags.String("format", DefaultFormat, "Output file type: csv, json or sqlite.")
	flags.String("type", DefaultFormat, "Alias for --format.")
	flags.Int("port", DefaultPort, "Port to listen for HTTP requests on (1024-65535).")
	flags.String("host", DefaultHost, "Address to bind to.")
	flags.String("log-level", DefaultLogLevel, "Log level: debug, info, warn or error.")
	flags.Bool("legacy-day-first", false, "Accept DD-MM-YYYY timestamps from the legacy heart rate shortcut.")
	flags.String("ledger-path", "", "Directory for the persistent export ledger. In-memory when empty.")
	flags.Duration("ledger-retention", DefaultRetention, "How long export ledger entries are kept.")
	flags.String("config", "", "Path to a TOML or YAML config file.")
	flags.String("env-file", ".env", "Path to a dotenv file loaded into the environment if present.")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	envFile, _ := flags.GetString("env-file")
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("directory", "")
	v.SetDefault("format", DefaultFormat)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("legacy_day_first", false)
	v.SetDefault("ledger_path", "")
	v.SetDefault("ledger_retention", DefaultRetention)

	bindings := map[string]string{
		"directory":        "directory",
		"format":           "format",
		"port":             "port",
		"host":             "host",
		"log_level":        "log-level",
		"legacy_day_first": "legacy-day-first",
		"ledger_path":      "ledger-path",
		"ledger_retention": "ledger-retention",
		"config":           "config",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	if flags.Changed("type") && !flags.Changed("format") {
		typ, _ := flags.GetString("type")
		v.Set("format", typ)
	}

	configFile := v.GetString("config")
	if err := readConfigFile(v, configFile); err != nil {
		return nil, err
	}

	cfg := &Config{
		Directory:       v.GetString("directory"),
		Host:            v.GetString("host"),
		Port:            v.GetInt("port"),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		LegacyDayFirst:  v.GetBool("legacy_day_first"),
		LedgerPath:      v.GetString("ledger_path"),
		LedgerRetention: v.GetDuration("ledger_retention"),
		ConfigFile:      v.ConfigFileUsed(),
	}

	format, err := export.ParseFormat(v.GetString("format"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", CodeInvalidFormat, err)
	}
	cfg.Format = format

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := export.ParseFormat(string(c.Format)); err != nil {
		return fmt.Errorf("%s: %w", CodeInvalidFormat, err)
	}
	if c.Port < MinPort || c.Port > MaxPort {
		return fmt.Errorf("%s: port %d outside %d-%d", CodeInvalidPort, c.Port, MinPort, MaxPort)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%s: %w", CodeInvalidLogLevel, err)
	}
	if c.LedgerRetention <= 0 {
		return fmt.Errorf("%s: retention must be positive, got %s", CodeInvalidRetention, c.LedgerRetention)
	}
	return nil
}

// readConfigFile reads an explicit config file, or looks for heartbridge.toml
// / heartbridge.yaml in the working directory and ~/.config/heartbridge.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("heartbridge")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/heartbridge")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}
