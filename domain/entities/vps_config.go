package entities

// OSAll is the wildcard marker for configurations supporting every OS version
const OSAll = "all"

// VPSConfig describes one provisionable machine shape and its hourly price
type VPSConfig struct {
	Key           string   `json:"key"`
	CPU           int      `json:"cpu"`
	RAMGB         int      `json:"ram_gb"`
	OSVersions    []string `json:"os_versions"`
	PointsPerHour int64    `json:"points_per_hour"`
}

// vpsCatalog is the fixed configuration table keyed by configuration identifier
var vpsCatalog = map[string]VPSConfig{
	"2-4-2012":   {Key: "2-4-2012", CPU: 2, RAMGB: 4, OSVersions: []string{"2012"}, PointsPerHour: 50},
	"4-4-all":    {Key: "4-4-all", CPU: 4, RAMGB: 4, OSVersions: []string{OSAll}, PointsPerHour: 75},
	"4-8-all":    {Key: "4-8-all", CPU: 4, RAMGB: 8, OSVersions: []string{OSAll}, PointsPerHour: 100},
	"2-6-server": {Key: "2-6-server", CPU: 2, RAMGB: 6, OSVersions: []string{"2012", "2019", "2022"}, PointsPerHour: 60},
	"2-8-server": {Key: "2-8-server", CPU: 2, RAMGB: 8, OSVersions: []string{"2012", "2019", "2022", "2025"}, PointsPerHour: 80},
	"4-6-all":    {Key: "4-6-all", CPU: 4, RAMGB: 6, OSVersions: []string{OSAll}, PointsPerHour: 90},
}

// catalogOrder fixes the display order of the catalog
var catalogOrder = []string{"2-4-2012", "4-4-all", "4-8-all", "2-6-server", "2-8-server", "4-6-all"}

// ConfigByKey looks up a configuration by its key
func ConfigByKey(key string) (VPSConfig, bool) {
	cfg, ok := vpsCatalog[key]
	return cfg, ok
}

// Catalog returns all configurations in display order
func Catalog() []VPSConfig {
	configs := make([]VPSConfig, 0, len(catalogOrder))
	for _, key := range catalogOrder {
		configs = append(configs, vpsCatalog[key])
	}
	return configs
}

// SupportsOS reports whether the configuration can run the given OS version
func (c VPSConfig) SupportsOS(osVersion string) bool {
	for _, os := range c.OSVersions {
		if os == OSAll || os == osVersion {
			return true
		}
	}
	return false
}

// Cost returns the total point cost for the given duration
func (c VPSConfig) Cost(hours int) int64 {
	return int64(hours) * c.PointsPerHour
}
