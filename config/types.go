package config

// AnalysisConfig controls window planning and the per-drive analysis fan-out
type AnalysisConfig struct {
	WindowSeconds        float64 `yaml:"windowSeconds" validate:"gte=0"`
	WindowOverlapSeconds float64 `yaml:"windowOverlapSeconds" validate:"gte=0"`
	MaxWorkers           int     `yaml:"maxWorkers" validate:"gte=0"`
	MinFix               int     `yaml:"minFix" validate:"gte=0,lte=3"`
}

// DedupConfig controls hazard deduplication
type DedupConfig struct {
	RadiusMeters           float64            `yaml:"radiusMeters" validate:"gte=0"`
	RadiusMetersByCategory map[string]float64 `yaml:"radiusMetersByCategory"`
}

// RouteConfig controls route matching
type RouteConfig struct {
	DistanceMetric          string  `yaml:"distanceMetric" validate:"omitempty,oneof=haversine euclidean"`
	OffRouteThresholdMeters float64 `yaml:"offRouteThresholdMeters" validate:"gte=0"`
}

// CacheConfig controls the drive results cache
type CacheConfig struct {
	Dir          string `yaml:"dir"`
	SkipExisting bool   `yaml:"skipExisting"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Dedup    DedupConfig    `yaml:"dedup"`
	Route    RouteConfig    `yaml:"route"`
	Cache    CacheConfig    `yaml:"cache"`
}
