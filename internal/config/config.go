package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/pageroute/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "pageroute.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "PAGEROUTE_"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPagesDir is the default page directory, relative to the project root.
	DefaultPagesDir = "src/pages"

	// DefaultExtension is the default page file extension.
	DefaultExtension = ".go"

	// DefaultExclude marks page keys that are not routes (shared views).
	DefaultExclude = "views"

	// DefaultLocale is the default translation locale.
	DefaultLocale = "en-US"
)

// Source kinds.
const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

// Config represents the complete pageroute.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" env:"NAME"`

	// Paths contains path configuration for project directories.
	Paths PathsConfig `json:"paths,omitempty" envPrefix:"PATHS_"`

	// Pages contains page file conventions.
	Pages PagesConfig `json:"pages,omitempty" envPrefix:"PAGES_"`

	// Source selects where page files are read from.
	Source SourceConfig `json:"source,omitempty" envPrefix:"SOURCE_"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty" envPrefix:"SERVER_"`

	// I18n contains page label translation configuration.
	I18n I18nConfig `json:"i18n,omitempty" envPrefix:"I18N_"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" envPrefix:"LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// PathsConfig contains path configuration for project directories.
type PathsConfig struct {
	// Pages is the directory scanned for page files.
	Pages string `json:"pages,omitempty" env:"PAGES"`

	// Locales is the directory holding <locale>.yaml translation catalogs.
	Locales string `json:"locales,omitempty" env:"LOCALES"`
}

// PagesConfig contains page file conventions.
type PagesConfig struct {
	// Extension is the page file extension, including the dot.
	Extension string `json:"extension,omitempty" env:"EXTENSION"`

	// Exclude drops every page key containing this marker.
	Exclude string `json:"exclude,omitempty" env:"EXCLUDE"`
}

// SourceConfig selects the page source.
type SourceConfig struct {
	// Kind is "dir" (default) or "s3".
	Kind string `json:"kind,omitempty" env:"KIND"`

	// Bucket is the S3 bucket holding page files.
	Bucket string `json:"bucket,omitempty" env:"BUCKET"`

	// Prefix is the key prefix under which page files live.
	Prefix string `json:"prefix,omitempty" env:"PREFIX"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty" env:"REGION"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`

	// PathStyle forces path-style bucket addressing.
	PathStyle bool `json:"pathStyle,omitempty" env:"PATH_STYLE"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" env:"PORT"`
}

// I18nConfig contains translation settings.
type I18nConfig struct {
	// Default is the locale used when a request names none.
	Default string `json:"default,omitempty" env:"DEFAULT"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// AWSCredentials are read from the standard AWS environment variables.
type AWSCredentials struct {
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	SessionToken    string `env:"AWS_SESSION_TOKEN"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Paths: PathsConfig{
			Pages:   DefaultPagesDir,
			Locales: "locales",
		},
		Pages: PagesConfig{
			Extension: DefaultExtension,
			Exclude:   DefaultExclude,
		},
		Source: SourceConfig{
			Kind: SourceDir,
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		I18n: I18nConfig{
			Default: DefaultLocale,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path and applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithFile(path).
				WithSuggestion("Create " + ConfigFileName + " at the project root")
		}
		return nil, errors.New("E120").WithFile(path).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithFile(path).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON").
			Wrap(err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PAGEROUTE_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.New("E121").Wrap(err)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").WithFile(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Paths.Pages == "" {
		c.Paths.Pages = DefaultPagesDir
	}
	if c.Paths.Locales == "" {
		c.Paths.Locales = "locales"
	}
	if c.Pages.Extension == "" {
		c.Pages.Extension = DefaultExtension
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceDir
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.I18n.Default == "" {
		c.I18n.Default = DefaultLocale
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("server.port must be between 0 and 65535")
	}
	if len(c.Pages.Extension) < 2 || c.Pages.Extension[0] != '.' {
		return errors.New("E122").
			WithDetail("pages.extension must start with a dot, e.g. \".go\"")
	}
	switch c.Source.Kind {
	case SourceDir:
	case SourceS3:
		if c.Source.Bucket == "" {
			return errors.New("E122").
				WithDetail("source.bucket is required when source.kind is \"s3\"")
		}
	default:
		return errors.New("E122").
			WithDetail("source.kind must be \"dir\" or \"s3\", got \"" + c.Source.Kind + "\"")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	return c.resolve(c.Paths.Pages)
}

// LocalesPath returns the absolute path to the locales directory.
func (c *Config) LocalesPath() string {
	return c.resolve(c.Paths.Locales)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// LoadAWSCredentials reads static AWS credentials from the environment.
// The returned credentials are empty when no variables are set.
func LoadAWSCredentials() (AWSCredentials, error) {
	var creds AWSCredentials
	if err := env.Parse(&creds); err != nil {
		return creds, errors.New("E121").Wrap(err)
	}
	return creds, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing pageroute.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E141").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or the nearest parent holding pageroute.json.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
