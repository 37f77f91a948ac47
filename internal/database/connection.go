package database

import (
	"database/sql"

	"github.com/rs/zerolog/log"
)

func (db *DB) exec(query string, args ...any) (sql.Result, error) {
	log.Trace().Str("query", query).Interface("args", args).Msg("exec")
	return db.conn.Exec(query, args...)
}

func (db *DB) query(query string, args ...any) (*sql.Rows, error) {
	log.Trace().Str("query", query).Interface("args", args).Msg("query")
	return db.conn.Query(query, args...)
}

func (db *DB) queryRow(query string, args ...any) *sql.Row {
	log.Trace().Str("query", query).Interface("args", args).Msg("query row")
	return db.conn.QueryRow(query, args...)
}

func (db *DB) begin() (*sql.Tx, error) {
	return db.conn.Begin()
}
