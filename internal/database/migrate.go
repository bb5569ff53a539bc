package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"readum/internal/logger"

	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrDirty means a previous migration failed halfway and needs a manual fix.
var ErrDirty = errors.New("database is in a dirty migration state")

const (
	versionTableExistsQuery = `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`
	createVersionTableQuery = `CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL, dirty NUMBER(1) NOT NULL)`
	selectVersionQuery      = `SELECT version, dirty FROM schema_migrations FETCH FIRST 1 ROWS ONLY`
	clearVersionQuery       = `DELETE FROM schema_migrations`
	insertVersionQuery      = `INSERT INTO schema_migrations (version, dirty) VALUES (:1, :2)`
)

// Migrator applies versioned SQL files read through golang-migrate's
// io/fs source. Version bookkeeping follows golang-migrate's
// schema_migrations layout so its CLI can inspect the same table.
type Migrator struct {
	db  *sqlx.DB
	src source.Driver
}

func NewMigrator(db *sqlx.DB, fsys fs.FS, dir string) (*Migrator, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("open migration source: %w", err)
	}
	return &Migrator{db: db, src: src}, nil
}

func (m *Migrator) Close() error {
	return m.src.Close()
}

// Version returns the applied version; zero means nothing is applied.
func (m *Migrator) Version(ctx context.Context) (uint, bool, error) {
	if err := m.ensureVersionTable(ctx); err != nil {
		return 0, false, err
	}
	var version int64
	var dirty int
	err := m.db.QueryRowxContext(ctx, selectVersionQuery).Scan(&version, &dirty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return uint(version), dirty != 0, nil
}

// Up applies every pending migration and returns how many ran.
func (m *Migrator) Up(ctx context.Context) (int, error) {
	current, dirty, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w at version %d", ErrDirty, current)
	}

	applied := 0
	for {
		next, err := m.nextVersion(current)
		if errors.Is(err, fs.ErrNotExist) {
			return applied, nil
		}
		if err != nil {
			return applied, err
		}

		body, name, err := m.src.ReadUp(next)
		if err != nil {
			return applied, fmt.Errorf("read up migration %d: %w", next, err)
		}
		if err := m.apply(ctx, next, next, name, body); err != nil {
			return applied, err
		}
		logger.Get().Info("applied migration", zap.Uint("version", next), zap.String("name", name))
		current = next
		applied++
	}
}

// Down rolls back steps migrations; steps <= 0 rolls back all of them.
func (m *Migrator) Down(ctx context.Context, steps int) (int, error) {
	current, dirty, err := m.Version(ctx)
	if err != nil {
		return 0, err
	}
	if dirty {
		return 0, fmt.Errorf("%w at version %d", ErrDirty, current)
	}

	rolled := 0
	for current > 0 && (steps <= 0 || rolled < steps) {
		prev, err := m.src.Prev(current)
		if errors.Is(err, fs.ErrNotExist) {
			prev = 0
		} else if err != nil {
			return rolled, fmt.Errorf("find version before %d: %w", current, err)
		}

		body, name, err := m.src.ReadDown(current)
		if err != nil {
			return rolled, fmt.Errorf("read down migration %d: %w", current, err)
		}
		if err := m.apply(ctx, current, prev, name, body); err != nil {
			return rolled, err
		}
		logger.Get().Info("rolled back migration", zap.Uint("version", current), zap.String("name", name))
		current = prev
		rolled++
	}
	return rolled, nil
}

func (m *Migrator) nextVersion(current uint) (uint, error) {
	if current == 0 {
		return m.src.First()
	}
	return m.src.Next(current)
}

// apply marks version dirty, runs the file, then records target as clean.
func (m *Migrator) apply(ctx context.Context, version, target uint, name string, body io.ReadCloser) error {
	defer body.Close()
	raw, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read migration %d: %w", version, err)
	}

	if err := m.setVersion(ctx, version, true); err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(raw)) {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", version, name, err)
		}
	}
	return m.setVersion(ctx, target, false)
}

func (m *Migrator) setVersion(ctx context.Context, version uint, dirty bool) error {
	if _, err := m.db.ExecContext(ctx, clearVersionQuery); err != nil {
		return fmt.Errorf("clear schema version: %w", err)
	}
	if version == 0 && !dirty {
		return nil
	}
	d := 0
	if dirty {
		d = 1
	}
	if _, err := m.db.ExecContext(ctx, insertVersionQuery, int64(version), d); err != nil {
		return fmt.Errorf("record schema version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) ensureVersionTable(ctx context.Context) error {
	var n int
	if err := m.db.GetContext(ctx, &n, versionTableExistsQuery); err != nil {
		return fmt.Errorf("check schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(ctx, createVersionTableQuery); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

// splitStatements splits a file on semicolons that end a line. The Oracle
// driver rejects a trailing semicolon, so it is dropped.
func splitStatements(sqlText string) []string {
	var stmts []string
	var cur strings.Builder
	for _, line := range strings.Split(sqlText, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		cur.WriteString(line)
		cur.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(cur.String()), ";")
			stmts = append(stmts, stmt)
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
