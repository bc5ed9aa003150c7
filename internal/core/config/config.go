package config

import (
	"os"
	"runtime"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Root           string  `toml:"root"`
	Workers        int     `toml:"workers"`
	MaxFileSize    int64   `toml:"max_file_size"`
	SignaturesPath string  `toml:"signatures_path"`
	Exclude        Exclude `toml:"exclude"`
	Watch          Watch   `toml:"watch"`
	Output         Output  `toml:"output"`
	History        History `toml:"history"`
	Tracing        Tracing `toml:"tracing"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// MaxRunsPerMinute caps how often event storms may trigger re-analysis.
	MaxRunsPerMinute float64 `toml:"max_runs_per_minute"`
}

type Output struct {
	JSON     string           `toml:"json"`
	Markdown string           `toml:"markdown"`
	Mermaid  string           `toml:"mermaid"`
	DOT      string           `toml:"dot"`
	TSV      string           `toml:"tsv"`
	Inject   []MarkdownInject `toml:"update_markdown"`
}

type MarkdownInject struct {
	File   string `toml:"file"`
	Marker string `toml:"marker"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Tracing struct {
	Endpoint string `toml:"endpoint"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 2 << 20 // 2 MiB per file
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{
			".git", "node_modules", "vendor", "dist", "build",
			"__pycache__", ".venv", "venv", "target",
		}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerMinute <= 0 {
		cfg.Watch.MaxRunsPerMinute = 12
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "reposcope-history.db"
	}
}
