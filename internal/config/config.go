package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"slices"
	"strconv"

	"github.com/jgivc/contentmetadata/internal/entity"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	ProbeAuto  = "auto"
	ProbeFile  = "file"
	ProbeSniff = "sniff"

	OutputXML  = "xml"
	OutputYAML = "yaml"
	OutputTree = "tree"

	EnvFileName = ".env"

	envLogLevel = "CONTENTMETADATA_LOG_LEVEL"
	envWorkers  = "CONTENTMETADATA_WORKERS"
	envProbe    = "CONTENTMETADATA_PROBE"

	defaultDescFileName = "description.md"
)

var defaultThreeDExtensions = []string{".obj"}

type FSAdapterConfig struct {
	Probe            string
	TrustedMimeTypes []string
	MimeTypeOrder    []string
}

type StageAdapterConfig struct {
	DescFileName string
	SkipFiles    []string
}

type AssemblerConfig struct {
	Workers          int
	ThreeDExtensions []string
}

type Config struct {
	LogLevel         string                  `yaml:"log_level"`
	Workers          int                     `yaml:"workers"`
	Probe            string                  `yaml:"probe"`
	TrustedMimeTypes []string                `yaml:"trusted_mimetypes"`
	MimeTypeOrder    []string                `yaml:"mime_type_order"`
	ThreeDExtensions []string                `yaml:"three_d_extensions"`
	DescFileName     string                  `yaml:"desc_filename"`
	SkipFiles        []string                `yaml:"skip_files"`
	Output           string                  `yaml:"output"`
	Generation       entity.GenerationConfig `yaml:"generation"`
}

func (c *Config) SetDefaults() {
	c.LogLevel = LogLevelInfo
	c.Workers = runtime.NumCPU()
	c.Probe = ProbeAuto
	c.ThreeDExtensions = slices.Clone(defaultThreeDExtensions)
	c.DescFileName = defaultDescFileName
	c.Output = OutputXML
	c.Generation = entity.NewGenerationConfig()
}

// Load reads the YAML file over the defaults and applies environment overrides.
// An empty path means defaults and environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.SetDefaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// LoadEnv loads variables from a .env file if one exists.
func LoadEnv(fileName string) error {
	if err := godotenv.Load(fileName); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load env file %s: %w", fileName, err)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if level := os.Getenv(envLogLevel); level != "" {
		c.LogLevel = level
	}

	if probe := os.Getenv(envProbe); probe != "" {
		c.Probe = probe
	}

	if workers := os.Getenv(envWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("cannot parse %s: %w", envWorkers, err)
		}

		c.Workers = n
	}

	return nil
}

func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("unknown log level: %s", c.LogLevel)
	}

	switch c.Probe {
	case ProbeAuto, ProbeFile, ProbeSniff:
	default:
		return fmt.Errorf("unknown probe: %s", c.Probe)
	}

	switch c.Output {
	case OutputXML, OutputYAML, OutputTree:
	default:
		return fmt.Errorf("unknown output format: %s", c.Output)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	return nil
}

func (c *Config) FSAdapterConfig() *FSAdapterConfig {
	return &FSAdapterConfig{
		Probe:            c.Probe,
		TrustedMimeTypes: c.TrustedMimeTypes,
		MimeTypeOrder:    c.MimeTypeOrder,
	}
}

func (c *Config) StageAdapterConfig() *StageAdapterConfig {
	return &StageAdapterConfig{
		DescFileName: c.DescFileName,
		SkipFiles:    c.SkipFiles,
	}
}

func (c *Config) AssemblerConfig() *AssemblerConfig {
	return &AssemblerConfig{
		Workers:          c.Workers,
		ThreeDExtensions: c.ThreeDExtensions,
	}
}
