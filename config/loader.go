package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rastlabs/rast-core/hazard"
)

// Config is the global application configuration
var Config AppConfig

// LoadAppConfig loads and validates the application configuration.
// An empty path tries config.yml in the working directory; a missing
// file leaves the defaults in place.
func LoadAppConfig(path string) error {
	paths := []string{"config.yml"}
	if path != "" {
		paths = []string{path}
	}

	var cfg AppConfig
	var data []byte
	var err error
	for _, p := range paths {
		data, err = os.ReadFile(p)
		if err == nil {
			break
		}
	}
	if err != nil {
		if path != "" {
			return err
		}
		// No config file is fine; run on defaults.
		Config = withDefaults(cfg)
		return nil
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return err
	}
	for name := range cfg.Dedup.RadiusMetersByCategory {
		if _, err := hazard.ParseCategory(name); err != nil {
			return fmt.Errorf("config: dedup.radiusMetersByCategory: %w", err)
		}
	}

	Config = withDefaults(cfg)
	return nil
}

func withDefaults(cfg AppConfig) AppConfig {
	if cfg.Analysis.WindowSeconds == 0 {
		cfg.Analysis.WindowSeconds = 20
	}
	if cfg.Analysis.WindowOverlapSeconds == 0 {
		cfg.Analysis.WindowOverlapSeconds = 3
	}
	if cfg.Analysis.MaxWorkers == 0 {
		cfg.Analysis.MaxWorkers = 10
	}
	if cfg.Analysis.MinFix == 0 {
		// 2D lock; cameras report fix 0 before acquiring satellites.
		cfg.Analysis.MinFix = 2
	}
	if cfg.Dedup.RadiusMeters == 0 {
		cfg.Dedup.RadiusMeters = 100
	}
	if cfg.Route.DistanceMetric == "" {
		cfg.Route.DistanceMetric = "haversine"
	}
	if cfg.Route.OffRouteThresholdMeters == 0 {
		cfg.Route.OffRouteThresholdMeters = 50
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = "cache"
	}
	return cfg
}
