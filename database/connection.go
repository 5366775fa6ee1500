package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ormgen/ormgen/utils"
)

var (
	pool     *pgxpool.Pool
	poolOnce sync.Once
	poolErr  error
)

// GetPool returns a singleton PostgreSQL connection pool.
func GetPool() (*pgxpool.Pool, error) {
	poolOnce.Do(func() {
		utils.LoadEnv()
		connStr := os.Getenv("DATABASE_URL")
		if connStr == "" {
			poolErr = fmt.Errorf("DATABASE_URL not set in environment")
			return
		}

		ctx := context.Background()
		pool, poolErr = pgxpool.New(ctx, connStr)
		if poolErr != nil {
			poolErr = fmt.Errorf("unable to create connection pool: %w", poolErr)
			return
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			poolErr = fmt.Errorf("unable to ping database: %w", err)
			return
		}
	})

	return pool, poolErr
}

// OpenMySQL opens a MySQL handle from DATABASE_URL (DSN form, e.g.
// user:pass@tcp(host:3306)/dbname).
func OpenMySQL(ctx context.Context) (*sql.DB, error) {
	utils.LoadEnv()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set in environment")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return db, nil
}

// ClosePool closes the PostgreSQL pool (call on application shutdown).
func ClosePool() {
	if pool != nil {
		pool.Close()
	}
}
