package tokenstore

import (
	"context"
	"embed"
	"io/fs"

	"fitmrp-client/internal/auth"
)

// Store persists one session per profile.
type Store interface {
	Save(ctx context.Context, profile string, s *auth.Session) error
	Load(ctx context.Context, profile string) (*auth.Session, error)
	Clear(ctx context.Context, profile string) error
}

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrations returns the credential schema in -- +migrate format.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}
