package db

import (
	"context"

	"github.com/rogerio-castellano/shelf-locator/internal/config"
	"github.com/rogerio-castellano/shelf-locator/internal/repo"
	"github.com/sirupsen/logrus"
)

// CloseFunc releases whatever connection backs a store.
type CloseFunc func() error

// OpenProductStore builds the repository selected by cfg.Driver. Mongo
// gets its lookup indexes and Postgres its schema before returning.
func OpenProductStore(ctx context.Context, cfg config.StoreConfig, log logrus.FieldLogger) (repo.ProductRepository, CloseFunc, error) {
	log = log.WithField("driver", cfg.Driver)

	switch cfg.Driver {
	case config.DriverMongo:
		m, err := ConnectMongo(ctx, cfg.URI, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := m.EnsureIndexes(ctx, cfg.Collection); err != nil {
			_ = m.Close()
			return nil, nil, err
		}
		log.WithField("collection", cfg.Collection).Info("✅ Connected to MongoDB")
		return repo.NewMongoProductRepository(m.Collection(cfg.Collection)), m.Close, nil

	case config.DriverPostgres:
		sqlDB, err := Connect(ctx, cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		if err := Migrate(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		log.Info("✅ Connected to PostgreSQL")
		return repo.NewPostgresProductRepository(sqlDB), sqlDB.Close, nil

	default:
		noop := func() error { return nil }
		if cfg.SeedFile == "" {
			log.Warn("using an empty in-memory store")
			return repo.NewInMemoryProductRepository(), noop, nil
		}
		mem, err := repo.NewInMemoryProductRepositoryFromFile(cfg.SeedFile)
		if err != nil {
			return nil, nil, err
		}
		log.WithField("seed_file", cfg.SeedFile).Info("seeded in-memory store")
		return mem, noop, nil
	}
}
