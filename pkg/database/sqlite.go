package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DriverName is the database/sql name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Schema creates the tables used by the SQLite storage backend.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
	position       INTEGER PRIMARY KEY,
	student_name   TEXT NOT NULL UNIQUE,
	student_phone  TEXT NOT NULL DEFAULT '',
	parent_name    TEXT NOT NULL DEFAULT '',
	parent_phone   TEXT NOT NULL DEFAULT '',
	progress_list  TEXT NOT NULL DEFAULT '[]',
	payment_status INTEGER NOT NULL DEFAULT 0,
	lessons        TEXT NOT NULL DEFAULT '[]'
)`,
	`CREATE TABLE IF NOT EXISTS lessons (
	position    INTEGER PRIMARY KEY,
	lesson_name TEXT NOT NULL UNIQUE,
	capacity    TEXT NOT NULL DEFAULT '',
	price       TEXT NOT NULL DEFAULT '',
	timing      TEXT NOT NULL DEFAULT '',
	students    TEXT NOT NULL DEFAULT '[]'
)`,
}

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

// NewSQLite opens (creating if needed) the database file at path and applies
// the schema. A single connection serialises writers.
func NewSQLite(path string) (*sqlx.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)", path)
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	for _, stmt := range Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return db, nil
}
