package application

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrationManager collects per-module embedded schema files and applies them
// in registration order on startup. Schema files are written to be idempotent
// (CREATE TABLE IF NOT EXISTS ...), so reapplying on every boot is safe.
type MigrationManager interface {
	RegisterSchema(files *embed.FS)
	Apply(ctx context.Context) error
}

func NewMigrationManager(pool *pgxpool.Pool) MigrationManager {
	return &migrationManager{pool: pool}
}

type migrationManager struct {
	pool    *pgxpool.Pool
	schemas []*embed.FS
}

func (m *migrationManager) RegisterSchema(files *embed.FS) {
	m.schemas = append(m.schemas, files)
}

func (m *migrationManager) Apply(ctx context.Context) error {
	for _, schema := range m.schemas {
		files, err := listSQLFiles(schema)
		if err != nil {
			return err
		}
		for _, path := range files {
			contents, err := schema.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read schema %s: %w", path, err)
			}
			if _, err := m.pool.Exec(ctx, string(contents)); err != nil {
				return fmt.Errorf("failed to apply schema %s: %w", path, err)
			}
		}
	}
	return nil
}

func listSQLFiles(fsys fs.FS) ([]string, error) {
	var fileList []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			fileList = append(fileList, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(fileList)
	return fileList, nil
}
