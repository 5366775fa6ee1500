package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ormgen/ormgen/database"
	"github.com/ormgen/ormgen/introspect"
)

// newProvider opens the catalog facts provider for the selected driver.
// The returned func releases the underlying connection resources.
func newProvider(ctx context.Context) (introspect.Provider, func(), error) {
	switch driver {
	case "postgres":
		pool, err := database.GetPool()
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return introspect.NewPostgres(pool), database.ClosePool, nil
	case "mysql":
		db, err := database.OpenMySQL(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to mysql: %w", err)
		}
		return introspect.NewMySQL(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q (want postgres or mysql)", driver)
	}
}

func newLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
