package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wwntg/news-harvester/internal/domain"
	"gopkg.in/yaml.v3"
)

// Package providers contains per-source extraction strategies and the
// source configuration registry (YAML/JSON).

// SourceConfig binds a source to the address its page is read from.
type SourceConfig struct {
	ID      string         `json:"id" yaml:"id"`
	Address string         `json:"address" yaml:"address"`
	BaseURL string         `json:"base_url" yaml:"base_url"`
	Enabled *bool          `json:"enabled" yaml:"enabled"`
	Config  map[string]any `json:"config" yaml:"config"`

	Source domain.SourceID `json:"-" yaml:"-"`
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg SourceConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}

// LinkBase is the address relative links are resolved against. Local
// fixture paths fall back to BaseURL.
func (cfg SourceConfig) LinkBase() string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return cfg.Address
}

type sourcesFile struct {
	Sources []SourceConfig `json:"sources" yaml:"sources"`
}

// SourceRegistry holds the effective configuration for every source.
type SourceRegistry struct {
	sources []SourceConfig
}

// DefaultSources returns the built-in configuration: BBC News for WORLD and
// BBC Ukrainian for UA.
func DefaultSources() *SourceRegistry {
	defaults := map[domain.SourceID]string{
		domain.SourceWorld: worldDefaultAddress,
		domain.SourceUA:    ukrainianDefaultAddress,
	}
	reg := &SourceRegistry{}
	for _, id := range domain.AllSources() {
		reg.sources = append(reg.sources, SourceConfig{
			ID:      id.Name(),
			Source:  id,
			Address: defaults[id],
			BaseURL: defaults[id],
			Config:  map[string]any{},
		})
	}
	return reg
}

// LoadSources applies the overrides in path on top of DefaultSources.
// An empty path yields the defaults.
func LoadSources(path string) (*SourceRegistry, error) {
	reg := DefaultSources()
	path = strings.TrimSpace(path)
	if path == "" {
		return reg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseSources(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}

	seen := make(map[domain.SourceID]bool, len(parsed.Sources))
	for i := range parsed.Sources {
		cfg := sanitizeSource(parsed.Sources[i])
		id, err := domain.Resolve(cfg.ID)
		if err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate source id %q", cfg.ID)
		}
		seen[id] = true
		cfg.Source = id
		reg.override(cfg)
	}
	return reg, nil
}

func parseSources(data []byte, ext string) (sourcesFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f sourcesFile
		if err := d.fn(data, &f); err == nil {
			return f, nil
		}
	}

	return sourcesFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

func sanitizeSource(cfg SourceConfig) SourceConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Address = strings.TrimSpace(cfg.Address)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.Config == nil {
		cfg.Config = map[string]any{}
	}
	return cfg
}

func (r *SourceRegistry) override(cfg SourceConfig) {
	for i := range r.sources {
		cur := &r.sources[i]
		if cur.Source != cfg.Source {
			continue
		}
		if cfg.Address != "" {
			cur.Address = cfg.Address
		}
		if cfg.BaseURL != "" {
			cur.BaseURL = cfg.BaseURL
		}
		if cfg.Enabled != nil {
			cur.Enabled = cfg.Enabled
		}
		for k, v := range cfg.Config {
			cur.Config[k] = v
		}
		return
	}
}

// All returns every source configuration in ingestion order.
func (r *SourceRegistry) All() []SourceConfig {
	if r == nil {
		return nil
	}
	out := make([]SourceConfig, len(r.sources))
	copy(out, r.sources)
	return out
}

// Enabled returns sources that are enabled.
func (r *SourceRegistry) Enabled() []SourceConfig {
	all := r.All()
	out := make([]SourceConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
