package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdssp/pds-crawler/internal/config"
	"github.com/pdssp/pds-crawler/pkg/cache"
	"github.com/pdssp/pds-crawler/pkg/etl"
	"github.com/pdssp/pds-crawler/pkg/httpfetch"
	"github.com/pdssp/pds-crawler/pkg/httputil"
	"github.com/pdssp/pds-crawler/pkg/integrations"
	"github.com/pdssp/pds-crawler/pkg/ode"
	"github.com/pdssp/pds-crawler/pkg/stac"
	"github.com/pdssp/pds-crawler/pkg/status"
	"github.com/pdssp/pds-crawler/pkg/store/filestore"
	"github.com/pdssp/pds-crawler/pkg/store/registry"
	"github.com/pdssp/pds-crawler/pkg/website"
)

// runtime bundles the components an extract/transform/check_extract
// command wires together, so each command only has to close it.
type runtime struct {
	registry registry.Store
	driver   *etl.Driver
}

// close releases the runtime's registry store (file lock or network
// connection).
func (r *runtime) close() error {
	return r.registry.Close()
}

// buildRuntime constructs a Driver and its dependencies from cfg: the
// registry store (local file or MongoDB, per cfg.Storage.MongoURI), the
// file store, a dedup cache (file, redis, or none, per cfg.Cache), the
// bounded HTTP fetcher, the ODE and website extractors, the STAC
// transformer, and an optional status server.
func buildRuntime(ctx context.Context, cfg config.Config, logger *log.Logger) (*runtime, error) {
	reg, err := newRegistry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	files := filestore.New(cfg.Storage.Root)

	dedup, err := newDedupCache(cfg.Cache)
	if err != nil {
		reg.Close()
		return nil, err
	}

	httpCache, err := httputil.NewCache(cfg.Storage.Root+"/.http-cache", time.Hour)
	if err != nil {
		reg.Close()
		return nil, err
	}
	client := integrations.NewClient(httpCache, time.Hour, map[string]string{"User-Agent": "pds-crawler"})

	fetcher := httpfetch.New(httpfetch.Options{
		MaxInFlight:    cfg.Fetch.MaxInFlight,
		PerHostCap:     cfg.Fetch.PerHostCap,
		MaxAttempts:    cfg.Fetch.MaxAttempts,
		BaseBackoff:    cfg.Fetch.BaseBackoff,
		ConnectTimeout: cfg.Fetch.ConnectTimeout,
		ReadTimeout:    cfg.Fetch.ReadTimeout,
	}, dedup)

	odeExtractor := ode.New(client, fetcher, reg, files, cfg.ODE.Host, cfg.ODE.PageSize, logger)
	websiteExtractor := website.New(client, fetcher, files, cfg.ODE.WebsiteHost, logger)
	transformer := stac.New(files, reg, logger)

	var statusServer *status.Server
	if cfg.Status.Addr != "" {
		statusServer = status.New()
		go func() {
			if err := statusServer.ListenAndServe(cfg.Status.Addr); err != nil {
				logger.Warn("status server stopped", "err", err)
			}
		}()
	}

	driver := etl.New(reg, files, odeExtractor, websiteExtractor, transformer, statusServer, cfg.Fetch.MaxInFlight, logger)
	return &runtime{registry: reg, driver: driver}, nil
}

func newRegistry(ctx context.Context, cfg config.Config) (registry.Store, error) {
	if cfg.Storage.MongoURI != "" {
		return registry.NewMongoStore(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, cfg.Storage.MongoCollection)
	}
	path := cfg.Storage.RegistryPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Storage.Root, path)
	}
	return registry.NewFileStore(path)
}

func newDedupCache(cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedisCache(cfg.Addr, cfg.DB)
	case "none":
		return cache.NewNullCache(), nil
	default:
		dir := cfg.Dir
		if dir == "" {
			dir = ".pds-crawler-cache"
		}
		return cache.NewFileCache(dir)
	}
}
