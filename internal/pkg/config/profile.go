package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ProviderProfile overrides the built-in settings of one LLM provider.
// Zero fields keep the default.
type ProviderProfile struct {
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ResearchProfile tunes the pacing of discovery and backfill runs.
type ResearchProfile struct {
	WindowDelay   time.Duration `yaml:"window_delay"`
	ItemDelay     time.Duration `yaml:"item_delay"`
	ScrapeEnabled *bool         `yaml:"scrape_enabled"`
}

// Profile is the optional YAML research profile named by RESEARCH_PROFILE.
//
// Example:
//
//	providers:
//	  grok:
//	    model: grok-2-latest
//	    temperature: 0.2
//	    timeout: 90s
//	research:
//	  window_delay: 2s
//	  item_delay: 1s
type Profile struct {
	Providers map[string]ProviderProfile `yaml:"providers"`
	Research  ResearchProfile            `yaml:"research"`
}

// Provider returns the override for name, or the zero profile.
func (p *Profile) Provider(name string) ProviderProfile {
	if p == nil {
		return ProviderProfile{}
	}
	return p.Providers[name]
}

// LoadProfile reads a research profile. An empty path yields an empty
// profile so callers can apply it unconditionally.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return &Profile{}, nil
	}
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read research profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse research profile %s: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("invalid research profile %s: %w", path, err)
	}
	return &p, nil
}

func (p *Profile) validate() error {
	for name, pp := range p.Providers {
		if pp.Temperature < 0 || pp.Temperature > 2 {
			return fmt.Errorf("providers.%s.temperature must be between 0 and 2", name)
		}
		if pp.Timeout < 0 {
			return fmt.Errorf("providers.%s.timeout cannot be negative", name)
		}
	}
	if p.Research.WindowDelay < 0 || p.Research.ItemDelay < 0 {
		return fmt.Errorf("research delays cannot be negative")
	}
	return nil
}
