package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"csvforge/internal/convert"
)

// MaxRecentFiles bounds the recent-files history.
const MaxRecentFiles = 5

// Config holds the persisted application settings. Option changes and the
// recent-files list are written from event goroutines while other goroutines
// read them, so every accessor takes the lock.
type Config struct {
	mu sync.RWMutex

	General     GeneralConfig `toml:"general"`
	CSV         CSVConfig     `toml:"csv"`
	Preview     PreviewConfig `toml:"preview"`
	UI          UIConfig      `toml:"ui"`
	RecentFiles []string      `toml:"recent_files"`
}

// GeneralConfig holds application-wide settings.
type GeneralConfig struct {
	LogLevel   string `toml:"log_level"`
	AutoReload bool   `toml:"auto_reload"`
}

// CSVConfig holds serialization defaults.
type CSVConfig struct {
	Delimiter     string `toml:"delimiter"`
	QuoteMode     string `toml:"quote_mode"`
	IncludeHeader bool   `toml:"include_header"`
	CRLF          bool   `toml:"crlf"`
	Encoding      string `toml:"encoding"`
}

// PreviewConfig holds preview grid settings.
type PreviewConfig struct {
	MaxRows int `toml:"max_rows"`
}

// UIConfig holds appearance settings.
type UIConfig struct {
	Theme string `toml:"theme"`
}

// Default returns a configuration with every setting at its default.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath resolves the config file location. CSVFORGE_CONFIG wins,
// otherwise the file lives under the user config directory.
func DefaultPath() string {
	if path := os.Getenv("CSVFORGE_CONFIG"); path != "" {
		return path
	}

	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "csvforge", "config.toml")
}

// Load reads the configuration from path. A missing file is not an error;
// defaults are returned instead.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	path = os.ExpandEnv(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := toml.NewEncoder(file).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// applyDefaults fills in anything the file left unset.
func (c *Config) applyDefaults() {
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.CSV.Delimiter == "" {
		c.CSV.Delimiter = "comma"
		// A fresh config also turns headers on; the zero value of a bool
		// cannot distinguish "unset" from "off", so headers default on only
		// together with an unset delimiter.
		c.CSV.IncludeHeader = true
	}
	if c.CSV.QuoteMode == "" {
		c.CSV.QuoteMode = "necessary"
	}
	if c.CSV.Encoding == "" {
		c.CSV.Encoding = "utf8"
	}
	if c.Preview.MaxRows == 0 {
		c.Preview.MaxRows = 100
	}
	if c.UI.Theme == "" {
		c.UI.Theme = "auto"
	}
}

// CSVOptions translates the persisted CSV settings into serializer options.
func (c *Config) CSVOptions() (convert.Options, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	opts := convert.DefaultOptions()

	delimiter, err := convert.ParseDelimiter(c.CSV.Delimiter)
	if err != nil {
		return opts, err
	}
	quoteMode, err := convert.ParseQuoteMode(c.CSV.QuoteMode)
	if err != nil {
		return opts, err
	}
	encoding, err := convert.ParseEncoding(c.CSV.Encoding)
	if err != nil {
		return opts, err
	}

	opts.Delimiter = delimiter
	opts.QuoteMode = quoteMode
	opts.Encoding = encoding
	opts.IncludeHeader = c.CSV.IncludeHeader
	opts.UseCRLF = c.CSV.CRLF
	return opts, nil
}

// SetCSVOptions stores serializer options back into the persisted settings.
func (c *Config) SetCSVOptions(opts convert.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.CSV.Delimiter = convert.DelimiterName(opts.Delimiter)
	c.CSV.QuoteMode = opts.QuoteMode.String()
	c.CSV.Encoding = opts.Encoding.String()
	c.CSV.IncludeHeader = opts.IncludeHeader
	c.CSV.CRLF = opts.UseCRLF
}

// AddRecentFile records path as the most recent file, deduplicating and
// keeping at most MaxRecentFiles entries.
func (c *Config) AddRecentFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	recents := make([]string, 0, MaxRecentFiles)
	recents = append(recents, path)
	for _, existing := range c.RecentFiles {
		if existing != path && len(recents) < MaxRecentFiles {
			recents = append(recents, existing)
		}
	}
	c.RecentFiles = recents
}

// Recents returns a copy of the recent-files list, most recent first.
func (c *Config) Recents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	recents := make([]string, len(c.RecentFiles))
	copy(recents, c.RecentFiles)
	return recents
}

// Theme returns the configured UI theme name.
func (c *Config) Theme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.UI.Theme
}

// SetTheme stores the UI theme name.
func (c *Config) SetTheme(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.UI.Theme = name
}

// AutoReload reports whether documents reload automatically on disk changes.
func (c *Config) AutoReload() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.General.AutoReload
}

// PreviewMaxRows returns the persisted preview row cap.
func (c *Config) PreviewMaxRows() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Preview.MaxRows
}

// SetPreviewMaxRows stores the preview row cap.
func (c *Config) SetPreviewMaxRows(rows int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Preview.MaxRows = rows
}
