package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/kodex/internal/client/migrations"
	"github.com/dmitrijs2005/kodex/internal/client/repositories/history"
	"github.com/dmitrijs2005/kodex/internal/client/repositories/metadata"

	_ "modernc.org/sqlite"
)

// Repositories groups the local stores sharing one database handle.
type Repositories struct {
	DB       *sql.DB
	History  *history.SQLiteRepository
	Metadata *metadata.SQLiteRepository
}

// InitDatabase opens the SQLite database at dsn and applies migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRepositories opens the database and binds the repositories to it.
func OpenRepositories(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := InitDatabase(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dsn, err)
	}
	return &Repositories{
		DB:       db,
		History:  history.NewSQLiteRepository(db),
		Metadata: metadata.NewSQLiteRepository(db),
	}, nil
}
