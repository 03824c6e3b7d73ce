package config

import "time"

// CatalogConfig points at the services owning screenings and clients.
// With both URLs empty an in-process catalog seeded with demo data is
// used instead.
type CatalogConfig struct {
	ScreeningsURL string        `envconfig:"CATALOG_SCREENINGS_URL"`
	ClientsURL    string        `envconfig:"CATALOG_CLIENTS_URL"`
	Timeout       time.Duration `envconfig:"CATALOG_TIMEOUT" default:"3s"`
	CacheTTL      time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"60s"`
	CachePrefix   string        `envconfig:"CATALOG_CACHE_PREFIX" default:"catalog"`
}

// Remote reports whether a catalog service is configured.
func (c CatalogConfig) Remote() bool {
	return c.ScreeningsURL != "" || c.ClientsURL != ""
}
