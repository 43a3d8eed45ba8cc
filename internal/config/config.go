// Package config loads the optional nodeprobe TOML configuration file.
package config

import (
	"emperror.dev/errors"
	"github.com/BurntSushi/toml"

	"github.com/voluzi/nodeprobe/pkg/nodeenv"
	"github.com/voluzi/nodeprobe/pkg/sampler"
)

type Config struct {
	Monitor Monitor `toml:"monitor"`
	Setup   Setup   `toml:"setup"`
}

type Monitor struct {
	OutputDir   string         `toml:"output_dir"`
	Sampler     sampler.Kind   `toml:"sampler"`
	PidstatPath string         `toml:"pidstat_path"`
	Layout      sampler.Layout `toml:"layout"`
}

type Setup struct {
	Home string `toml:"home"`
	nodeenv.Plan
}

func Default() *Config {
	return &Config{
		Monitor: Monitor{
			OutputDir:   ".",
			Sampler:     sampler.Auto,
			PidstatPath: sampler.DefaultPidstatPath,
			Layout:      sampler.DefaultLayout,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so typos do not go unnoticed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config %s", path)
	}
	if unknown := unknownKeys(md.Undecoded()); len(unknown) > 0 {
		return nil, errors.Errorf("unknown config keys in %s: %v", path, unknown)
	}
	return cfg, nil
}

// unknownKeys drops the keys below setup.config_overrides, which decode into
// a free-form map and are always reported as undecoded.
func unknownKeys(undecoded []toml.Key) []string {
	var unknown []string
	for _, key := range undecoded {
		if len(key) >= 2 && key[0] == "setup" && key[1] == "config_overrides" {
			continue
		}
		unknown = append(unknown, key.String())
	}
	return unknown
}
