// Package storage implements the SQLite persistence layer for wires: the
// .wires database lifecycle, discovery, and the transactional operations the
// engine runs against it.
package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/barooo/wires/internal/core"
	"github.com/barooo/wires/pkg/models"
)

//go:embed schema.sql
var schemaSQL string

const (
	// WiresDir is the repository marker directory, searched for like .git.
	WiresDir = ".wires"
	// DBName is the database file inside WiresDir.
	DBName = "wires.db"
)

// dsn appends the connection options every open uses: foreign keys on for
// cascade deletes, and a busy timeout so concurrent invocations queue
// instead of failing.
func dsn(dbPath string) string {
	return dbPath + "?_fk=1&_busy_timeout=5000"
}

// Init creates the .wires directory and database under root and returns the
// database path. Fails if the directory already exists.
func Init(root string) (string, error) {
	dir := filepath.Join(root, WiresDir)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("%w: %s", models.ErrAlreadyInitialized, dir)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, DBName)
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return "", fmt.Errorf("creating database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// WAL journaling is persistent, so setting it once here covers every
	// later open.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return "", fmt.Errorf("enabling WAL: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return "", fmt.Errorf("initializing schema: %w", err)
	}
	return dbPath, nil
}

// Discover walks up from start looking for a .wires database, the way git
// finds its repository root.
func Discover(start string) (string, error) {
	current := start
	for {
		dbPath := filepath.Join(current, WiresDir, DBName)
		if _, err := os.Stat(dbPath); err == nil {
			return dbPath, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", models.ErrNotRepository
		}
		current = parent
	}
}

// Store provides access to the wires database. It implements core.Store.
type Store struct {
	db *sql.DB
}

var _ core.Store = (*Store)(nil)

// Open opens the database at dbPath.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// WithTx runs fn in a single transaction, committing when fn returns nil and
// rolling back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx core.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if err := fn(&storeTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back after %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const wireColumns = "id, title, description, status, created_at, updated_at, priority"

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanWire reads one wires row. NULL and empty descriptions both come back
// as the empty string.
func scanWire(row rowScanner) (*models.Wire, error) {
	var (
		w         models.Wire
		desc      sql.NullString
		rawStatus string
	)
	if err := row.Scan(&w.ID, &w.Title, &desc, &rawStatus, &w.CreatedAt, &w.UpdatedAt, &w.Priority); err != nil {
		return nil, err
	}
	if desc.Valid {
		w.Description = desc.String
	}

	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("wire %s: %w", w.ID, err)
	}
	w.Status = status
	return &w, nil
}

func (s *Store) GetWireWithDeps(ctx context.Context, id string) (*models.WireWithDeps, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+wireColumns+" FROM wires WHERE id = ?", id)
	wire, err := scanWire(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying wire: %w", err)
	}

	dependsOn, err := s.dependencyInfos(ctx, depsOfQuery, id)
	if err != nil {
		return nil, err
	}
	blocks, err := s.dependencyInfos(ctx, blocksQuery, id)
	if err != nil {
		return nil, err
	}

	return &models.WireWithDeps{Wire: *wire, DependsOn: dependsOn, Blocks: blocks}, nil
}

const (
	// depsOfQuery lists the prerequisites of a wire.
	depsOfQuery = `SELECT w.id, w.title, w.status FROM wires w
		JOIN dependencies d ON w.id = d.depends_on
		WHERE d.wire_id = ?`

	// blocksQuery lists the wires waiting on a wire.
	blocksQuery = `SELECT w.id, w.title, w.status FROM wires w
		JOIN dependencies d ON w.id = d.wire_id
		WHERE d.depends_on = ?`
)

func (s *Store) dependencyInfos(ctx context.Context, query, id string) ([]models.DependencyInfo, error) {
	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	return collectDependencyInfos(rows)
}

func collectDependencyInfos(rows *sql.Rows) ([]models.DependencyInfo, error) {
	infos := make([]models.DependencyInfo, 0)
	for rows.Next() {
		var (
			info      models.DependencyInfo
			rawStatus string
		)
		if err := rows.Scan(&info.ID, &info.Title, &rawStatus); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		status, err := models.ParseStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("wire %s: %w", info.ID, err)
		}
		info.Status = status
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dependencies: %w", err)
	}
	return infos, nil
}

func (s *Store) ListWires(ctx context.Context, status *models.Status) ([]models.Wire, error) {
	query := "SELECT " + wireColumns + " FROM wires"
	args := []any{}
	if status != nil {
		query += " WHERE status = ?"
		args = append(args, string(*status))
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying wires: %w", err)
	}
	defer rows.Close()

	wires := make([]models.Wire, 0)
	for rows.Next() {
		w, err := scanWire(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wire: %w", err)
		}
		wires = append(wires, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading wires: %w", err)
	}
	return wires, nil
}

func (s *Store) ListWiresWithDeps(ctx context.Context, status *models.Status) ([]models.WireWithDeps, error) {
	wires, err := s.ListWires(ctx, status)
	if err != nil {
		return nil, err
	}

	out := make([]models.WireWithDeps, 0, len(wires))
	for _, w := range wires {
		dependsOn, err := s.dependencyInfos(ctx, depsOfQuery, w.ID)
		if err != nil {
			return nil, err
		}
		blocks, err := s.dependencyInfos(ctx, blocksQuery, w.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, models.WireWithDeps{Wire: w, DependsOn: dependsOn, Blocks: blocks})
	}
	return out, nil
}

func (s *Store) ListEdges(ctx context.Context) ([]models.GraphEdge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT wire_id, depends_on FROM dependencies")
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	edges := make([]models.GraphEdge, 0)
	for rows.Next() {
		var e models.GraphEdge
		if err := rows.Scan(&e.From, &e.To); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dependencies: %w", err)
	}
	return edges, nil
}

// storeTx implements core.Tx on top of one *sql.Tx.
type storeTx struct {
	tx *sql.Tx
}

var _ core.Tx = (*storeTx)(nil)

func (t *storeTx) WireExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := t.tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM wires WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking wire %s: %w", id, err)
	}
	return count > 0, nil
}

func (t *storeTx) GetWire(ctx context.Context, id string) (*models.Wire, error) {
	row := t.tx.QueryRowContext(ctx, "SELECT "+wireColumns+" FROM wires WHERE id = ?", id)
	wire, err := scanWire(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying wire: %w", err)
	}
	return wire, nil
}

func (t *storeTx) InsertWire(ctx context.Context, wire *models.Wire) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO wires ("+wireColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		wire.ID, wire.Title, wire.Description, string(wire.Status),
		wire.CreatedAt, wire.UpdatedAt, wire.Priority,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return fmt.Errorf("%w: %s", models.ErrWireExists, wire.ID)
		}
		return fmt.Errorf("inserting wire: %w", err)
	}
	return nil
}

func (t *storeTx) UpdateWire(ctx context.Context, id string, upd models.WireUpdate, now int64) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if upd.Priority != nil {
		sets = append(sets, "priority = ?")
		args = append(args, *upd.Priority)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	res, err := t.tx.ExecContext(ctx, "UPDATE wires SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating wire: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
	}
	return nil
}

func (t *storeTx) DeleteWire(ctx context.Context, id string) error {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM wires WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting wire: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", models.ErrWireNotFound, id)
	}
	return nil
}

func (t *storeTx) Dependencies(ctx context.Context, id string) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx, "SELECT depends_on FROM dependencies WHERE wire_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	deps := make([]string, 0)
	for rows.Next() {
		var dep string
		if err := rows.Scan(&dep); err != nil {
			return nil, fmt.Errorf("scanning dependency: %w", err)
		}
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dependencies: %w", err)
	}
	return deps, nil
}

func (t *storeTx) DependencyInfos(ctx context.Context, id string) ([]models.DependencyInfo, error) {
	rows, err := t.tx.QueryContext(ctx, depsOfQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying dependencies: %w", err)
	}
	defer rows.Close()

	return collectDependencyInfos(rows)
}

func (t *storeTx) InsertEdge(ctx context.Context, wireID, dependsOn string) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO dependencies (wire_id, depends_on) VALUES (?, ?)",
		wireID, dependsOn,
	)
	if err != nil {
		return fmt.Errorf("inserting dependency: %w", err)
	}
	return nil
}

func (t *storeTx) DeleteEdge(ctx context.Context, wireID, dependsOn string) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM dependencies WHERE wire_id = ? AND depends_on = ?",
		wireID, dependsOn,
	)
	if err != nil {
		return fmt.Errorf("deleting dependency: %w", err)
	}
	return nil
}
