// Package config loads the crawler's TOML configuration file, the way the
// teacher's pkg/deps/python and pkg/deps/rust packages parse package-manager
// manifests with the same library.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration document, conventionally loaded from
// pds-crawler.toml. Every field has a zero-value-safe default applied by
// [Load]; the file only needs to override what differs from defaults.
type Config struct {
	Storage Storage `toml:"storage"`
	ODE     ODE     `toml:"ode"`
	Fetch   Fetch   `toml:"fetch"`
	Cache   Cache   `toml:"cache"`
	Status  Status  `toml:"status"`
}

// Storage configures the on-disk collection tree and optional registry
// store backend.
type Storage struct {
	// Root is the directory every collection's records/pds3/stac subtree
	// is written under.
	Root string `toml:"root"`

	// RegistryPath is the registry store's JSON-lines snapshot path,
	// relative to Root when not absolute. Ignored when MongoURI is set.
	RegistryPath string `toml:"registry_path"`

	// MongoURI, when non-empty, switches the registry store to
	// pkg/store/registry.MongoStore instead of the local file store.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// ODE configures the upstream discovery/records service and the archive
// website scraped for PDS3 catalog files.
type ODE struct {
	Host        string `toml:"host"`
	WebsiteHost string `toml:"website_host"`
	PageSize    int    `toml:"page_size"`
}

// Fetch configures the bounded-concurrency HTTP fetcher, mirroring
// pkg/httpfetch.Options.
type Fetch struct {
	MaxInFlight    int           `toml:"max_in_flight"`
	PerHostCap     int           `toml:"per_host_cap"`
	MaxAttempts    int           `toml:"max_attempts"`
	BaseBackoff    time.Duration `toml:"base_backoff"`
	ConnectTimeout time.Duration `toml:"connect_timeout"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
}

// Cache configures the optional page/descriptor dedup cache. Backend is
// "file" (default), "redis", or "none".
type Cache struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	Addr    string `toml:"addr"`
	DB      int    `toml:"db"`
}

// Status configures the optional local progress HTTP endpoint. Addr is
// empty by default, which leaves the endpoint disabled.
type Status struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file is present:
// conservative fetcher limits and a registry store under ./pds-data.
func Default() Config {
	return Config{
		Storage: Storage{Root: "./pds-data", RegistryPath: "registry.json"},
		ODE: ODE{
			Host:        "https://oderest.rsl.wustl.edu",
			WebsiteHost: "https://ode.rsl.wustl.edu",
			PageSize:    100,
		},
		Fetch: Fetch{
			MaxInFlight:    8,
			PerHostCap:     2,
			MaxAttempts:    5,
			BaseBackoff:    time.Second,
			ConnectTimeout: 10 * time.Second,
			ReadTimeout:    60 * time.Second,
		},
		Cache: Cache{Backend: "file", Dir: "./pds-data/.cache"},
	}
}

// Load reads and parses a TOML configuration file at path, applying
// [Default] to any field the file leaves zero. A missing file is not an
// error: Load returns the defaults unchanged, since a fresh checkout
// should run without requiring a config file first.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
