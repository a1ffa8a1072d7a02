package save

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/world"
)

// Store is the SQLite backing for saved worlds. One connection, WAL
// journal; all access goes through the save worker, so no statement
// level locking is needed on top.
type Store struct {
	db *sql.DB
}

// Open creates or opens the save database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty save db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS world_meta (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			seed INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS player (
			world_id TEXT PRIMARY KEY REFERENCES world_meta(id),
			x REAL NOT NULL, y REAL NOT NULL, z REAL NOT NULL,
			yaw REAL NOT NULL, pitch REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS chunks (
			world_id TEXT NOT NULL REFERENCES world_meta(id),
			cx INTEGER NOT NULL,
			cz INTEGER NOT NULL,
			blocks BLOB NOT NULL,
			PRIMARY KEY (world_id, cx, cz)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// UpsertMeta writes the world metadata row.
func (s *Store) UpsertMeta(meta WorldMeta) error {
	_, err := s.db.Exec(
		`INSERT INTO world_meta (id, name, seed, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		meta.ID, meta.Name, meta.Seed, meta.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// WriteSnapshot persists one snapshot atomically: metadata, player and
// every chunk payload, replacing previous rows for the same world.
func (s *Store) WriteSnapshot(snap Snapshot) error {
	rows, err := encodeChunkRows(snap.Chunks)
	if err != nil {
		return fmt.Errorf("encode chunks: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO world_meta (id, name, seed, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		snap.Meta.ID, snap.Meta.Name, snap.Meta.Seed, snap.Meta.CreatedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO player (world_id, x, y, z, yaw, pitch) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(world_id) DO UPDATE SET
			x = excluded.x, y = excluded.y, z = excluded.z,
			yaw = excluded.yaw, pitch = excluded.pitch`,
		snap.Meta.ID, snap.Player.X, snap.Player.Y, snap.Player.Z, snap.Player.Yaw, snap.Player.Pitch,
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO chunks (world_id, cx, cz, blocks) VALUES (?, ?, ?, ?)
		 ON CONFLICT(world_id, cx, cz) DO UPDATE SET blocks = excluded.blocks`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(snap.Meta.ID, row.cx, row.cz, row.blob); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReadAll loads the most recently created world with its player and
// chunk payloads. Found is false for an empty database.
func (s *Store) ReadAll() (LoadResult, error) {
	var res LoadResult
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, name, seed, created_at FROM world_meta ORDER BY created_at DESC LIMIT 1`,
	).Scan(&res.Meta.ID, &res.Meta.Name, &res.Meta.Seed, &createdAt)
	if err == sql.ErrNoRows {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	if t, perr := time.Parse(time.RFC3339, createdAt); perr == nil {
		res.Meta.CreatedAt = t
	}
	res.Found = true

	err = s.db.QueryRow(
		`SELECT x, y, z, yaw, pitch FROM player WHERE world_id = ?`, res.Meta.ID,
	).Scan(&res.Player.X, &res.Player.Y, &res.Player.Z, &res.Player.Yaw, &res.Player.Pitch)
	if err != nil && err != sql.ErrNoRows {
		return res, err
	}

	rows, err := s.db.Query(`SELECT cx, cz, blocks FROM chunks WHERE world_id = ?`, res.Meta.ID)
	if err != nil {
		return res, err
	}
	defer rows.Close()
	for rows.Next() {
		var cx, cz int
		var blob []byte
		if err := rows.Scan(&cx, &cz, &blob); err != nil {
			return res, err
		}
		blocks, err := decodeBlocks(blob)
		if err != nil {
			return res, fmt.Errorf("decode chunk (%d,%d): %w", cx, cz, err)
		}
		res.Chunks = append(res.Chunks, world.ChunkSnapshot{
			Coord:  world.ChunkCoord{X: cx, Z: cz},
			Blocks: blocks,
		})
	}
	return res, rows.Err()
}
