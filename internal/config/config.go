package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	Port     int          `yaml:"port"`
	LogLevel logrus.Level `yaml:"logLevel"`

	// GitLab configuration
	GitLabURL      string        `yaml:"gitlabUrl"`
	GitLabToken    string        `yaml:"-"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`

	// Caching
	CommitCacheTTL  time.Duration `yaml:"commitCacheTtl"`
	ProjectCacheTTL time.Duration `yaml:"projectCacheTtl"`
	WarmInterval    time.Duration `yaml:"warmInterval"`

	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`

	// Timezone weeks and years are computed in. Empty means the host's local time.
	Timezone string `yaml:"timezone"`

	// Projects lists the GitLab project ids of the dashboard roster.
	Projects []string `yaml:"projects"`
	// HiddenMembers lists member names left out of the weekly overview.
	HiddenMembers []string `yaml:"hiddenMembers"`
}

// Defaults returns the configuration used when nothing else is given.
func Defaults() Config {
	return Config{
		Port:            8080,
		LogLevel:        logrus.InfoLevel,
		GitLabURL:       "https://gitlab.com",
		RequestTimeout:  10 * time.Second,
		CommitCacheTTL:  time.Hour,
		ProjectCacheTTL: 5 * time.Minute,
		ShutdownTimeout: 2 * time.Second,
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the optional
// YAML file named by --config-file, environment variables and command-line flags.
func Load(args []string) (*Config, error) {
	var (
		configFile string
		port       int
		logLevel   string
	)

	flags := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	flags.StringVarP(&configFile, "config-file", "c", "", "Path to an optional YAML configuration file.")
	flags.IntVarP(&port, "port", "p", 0, "Port to listen on.")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error).")

	if err := flags.Parse(args[1:]); err != nil {
		return nil, fmt.Errorf("can not parse command-line parameters: %w", err)
	}

	cfg := Defaults()

	if configFile != "" {
		if err := loadFile(&cfg, configFile); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if flags.Changed("port") {
		cfg.Port = port
	}
	if flags.Changed("log-level") {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		cfg.LogLevel = level
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func loadFile(cfg *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("can not open configuration file %q: %w", path, err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("can not parse configuration file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			cfg.Port = p
		}
	}

	if url := firstEnv("GITLAB_URL", "url"); url != "" {
		cfg.GitLabURL = url
	}
	cfg.GitLabToken = firstEnv("GITLAB_TOKEN", "token")

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		level, err := logrus.ParseLevel(levelStr)
		if err != nil {
			return fmt.Errorf("invalid LOG_LEVEL %q: %w", levelStr, err)
		}
		cfg.LogLevel = level
	}

	if projects := os.Getenv("PROJECTS"); projects != "" {
		cfg.Projects = splitList(projects)
	}

	return nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.GitLabURL == "" {
		return errors.New("gitlabUrl can not be empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("requestTimeout must be positive")
	}
	if c.CommitCacheTTL <= 0 {
		return errors.New("commitCacheTtl must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdownTimeout must be positive")
	}
	if c.ProjectCacheTTL < 0 || c.WarmInterval < 0 {
		return errors.New("durations can not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location returns the time zone named by Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// HasGitLabToken returns true if a GitLab token is configured.
func (c *Config) HasGitLabToken() bool {
	return c.GitLabToken != ""
}

// ListenAddress returns the address the HTTP server binds to.
func (c *Config) ListenAddress() string {
	return ":" + strconv.Itoa(c.Port)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
