package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/head"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "vhead.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It
	// is used when no JSON file exists.
	YAMLConfigFileName = "vhead.yaml"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultDebounce is the default delay between a file change and the
	// reload it triggers.
	DefaultDebounce = "100ms"

	// DefaultLogLevel and DefaultLogFormat configure the CLI logger.
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config represents a vhead.json (or vhead.yaml) project configuration.
type Config struct {
	// Name is the site name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Defaults is mounted as the outermost declaration of every page.
	Defaults *head.Declaration `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// Declarations are the declaration files (or glob patterns) the
	// render and serve commands use when none are given.
	Declarations []string `json:"declarations,omitempty" yaml:"declarations,omitempty"`

	// SEO configures tag prioritization.
	SEO SEOConfig `json:"seo,omitempty" yaml:"seo,omitempty"`

	// Preview configures the preview server.
	Preview PreviewConfig `json:"preview,omitempty" yaml:"preview,omitempty"`

	// Log configures the CLI logger.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// SEOConfig extends or replaces the default SEO priority rules.
type SEOConfig struct {
	// Rules maps a tag category to attribute names and the values that
	// make a tag high priority. "*" matches any value.
	Rules map[string]map[string][]string `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Replace discards the default rules instead of merging into them.
	Replace bool `json:"replace,omitempty" yaml:"replace,omitempty"`
}

// PreviewConfig contains preview server settings.
type PreviewConfig struct {
	// Port is the port to serve on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Watch reloads declaration files when they change.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"`

	// Debounce is the delay between a change and the reload (e.g. "100ms").
	Debounce string `json:"debounce,omitempty" yaml:"debounce,omitempty"`

	// Body is an HTML file whose body is served around the head. A
	// placeholder body is used when empty.
	Body string `json:"body,omitempty" yaml:"body,omitempty"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Preview: PreviewConfig{
			Port:     DefaultPort,
			Host:     DefaultHost,
			Watch:    true,
			Debounce: DefaultDebounce,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// vhead.json, then vhead.yaml.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("H100").
		WithDetail("No " + ConfigFileName + " or " + YAMLConfigFileName + " found in " + dir).
		WithSuggestion("Run 'vhead init' to create one")
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("H100").WithFile(path).Wrap(err)
		}
		return nil, errors.New("H101").WithFile(path).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(cfg)
	}
	if err != nil {
		return nil, errors.New("H101").
			WithLocationFromError(path, err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + formatName(path)).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("H103").WithFile(path).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("H103").WithFile(path).Wrap(err)
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
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Debounce == "" {
		c.Preview.Debounce = DefaultDebounce
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return c.invalid("preview.port must be between 0 and 65535, got " + strconv.Itoa(c.Preview.Port))
	}
	if c.Preview.Debounce != "" {
		if d, err := time.ParseDuration(c.Preview.Debounce); err != nil || d < 0 {
			return c.invalid("preview.debounce must be a non-negative duration like \"100ms\", got " + strconv.Quote(c.Preview.Debounce))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return c.invalid("log.level must be debug, info, warn or error, got " + strconv.Quote(c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return c.invalid("log.format must be text or json, got " + strconv.Quote(c.Log.Format))
	}
	for name := range c.SEO.Rules {
		if !head.Category(name).Valid() {
			return c.invalid(fmt.Sprintf("seo.rules: unknown tag category %q", name))
		}
	}
	return nil
}

func (c *Config) invalid(detail string) error {
	err := errors.New("H102").WithDetail(detail)
	if c.configPath != "" {
		err = err.WithFile(c.configPath)
	}
	return err
}

// SEORules returns the default rules merged with the configured ones, or
// only the configured ones when SEO.Replace is set.
func (c *Config) SEORules() head.SEORules {
	custom := head.SEORules{}
	for name, attrs := range c.SEO.Rules {
		rules := head.CategoryRules{}
		for attr, values := range attrs {
			rules[attr] = append([]string(nil), values...)
		}
		custom[head.Category(name)] = rules
	}
	if c.SEO.Replace {
		return custom
	}
	return head.DefaultSEORules().Merge(custom)
}

// DebounceDuration returns the parsed debounce delay, or the default when
// it is empty or malformed.
func (c *Config) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(c.Preview.Debounce); err == nil && d >= 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultDebounce)
	return d
}

// Address returns the listen address of the preview server.
func (c *Config) Address() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

// URL returns the full URL of the preview server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// Resolve returns path relative to the config directory unless it is
// absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// DeclarationFiles expands the configured declaration patterns relative
// to the config directory. Patterns that match nothing are kept as
// literal paths so that loading them reports the missing file.
func (c *Config) DeclarationFiles() ([]string, error) {
	var files []string
	for _, pattern := range c.Declarations {
		resolved := c.Resolve(pattern)
		matches, err := filepath.Glob(resolved)
		if err != nil {
			return nil, errors.New("H102").
				WithDetail(fmt.Sprintf("declarations: bad pattern %q", pattern)).
				Wrap(err)
		}
		if len(matches) == 0 {
			files = append(files, resolved)
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
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
			return "", errors.New("H100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'vhead init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the working directory or
// the nearest parent holding a config file.
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

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func formatName(path string) string {
	if isYAML(path) {
		return "YAML"
	}
	return "JSON"
}
