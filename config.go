package ajax

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/partial-coffee/go-ajax/connector"
)

// FileConfig is the on-disk form of a service configuration.
type FileConfig struct {
	// Connector names the front-end convention, see connector.ByName.
	Connector   string   `yaml:"connector"`
	UseURLQuery bool     `yaml:"use_url_query"`
	Templates   string   `yaml:"templates"`
	Layouts     []string `yaml:"layouts"`
	Cache       bool     `yaml:"cache"`
	Dump        bool     `yaml:"dump"`
}

// DefaultFileConfig returns the configuration used when no file exists.
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Connector: "ajax",
		Templates: ".",
		Cache:     true,
	}
}

// LoadConfig loads configuration from a YAML file. A missing file yields the
// defaults. AJAX_CONNECTOR, AJAX_TEMPLATES and AJAX_DUMP override the file.
func LoadConfig(path string) (*FileConfig, error) {
	cfg := DefaultFileConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *FileConfig) applyEnvOverrides() error {
	if v := os.Getenv("AJAX_CONNECTOR"); v != "" {
		c.Connector = v
	}

	if v := os.Getenv("AJAX_TEMPLATES"); v != "" {
		c.Templates = v
	}

	if v := os.Getenv("AJAX_DUMP"); v != "" {
		dump, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid AJAX_DUMP %q: %w", v, err)
		}
		c.Dump = dump
	}

	return nil
}

// Config builds a service configuration. Templates are read from fsys, or
// from the Templates directory when fsys is nil.
func (c *FileConfig) Config(fsys fs.FS, logger Logger) (*Config, error) {
	conn, err := connector.ByName(c.Connector, &connector.Config{UseURLQuery: c.UseURLQuery})
	if err != nil {
		return nil, err
	}

	if fsys == nil {
		fsys = os.DirFS(c.Templates)
	}

	renderer := NewTemplateRenderer(fsys, c.Layouts...).
		UseCache(c.Cache).
		SetLogger(logger).
		SetConnector(conn)

	return &Config{
		Connector: conn,
		Renderer:  renderer,
		Logger:    logger,
		Dump:      c.Dump,
	}, nil
}
