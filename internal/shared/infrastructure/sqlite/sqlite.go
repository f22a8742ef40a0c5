package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open 打开（不存在则创建）sqlite 库并建表。path 为 ":memory:" 时用内存库。
func Open(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite 单写者，连接池放大只会带来 SQLITE_BUSY
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=3000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS maps (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			version    TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS coordinates (
			id         INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			xvalue     FLOAT NOT NULL,
			yvalue     FLOAT NOT NULL,
			zvalue     FLOAT NOT NULL,
			mapid      INTEGER NOT NULL,
			FOREIGN KEY(mapid) REFERENCES maps(id)
		);
		CREATE INDEX IF NOT EXISTS idx_coordinates_mapid ON coordinates(mapid);
	`)
	return err
}
