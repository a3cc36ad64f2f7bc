package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/drunlade/zwzniff/frame"
	"github.com/drunlade/zwzniff/region"
)

// SQLite is a database/sql-backed Index matching the frame index schema:
// id, timestamp, speed, rssi, channel, home_id, src_node_id, dst_node_id,
// payload_raw, with a timestamp index for range scans.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) a SQLite database at path and
// ensures the frame index schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLite) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS frames (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			speed INTEGER NOT NULL,
			rssi INTEGER NOT NULL,
			channel INTEGER NOT NULL,
			home_id INTEGER NOT NULL,
			src_node_id INTEGER NOT NULL,
			dst_node_id INTEGER NOT NULL,
			payload_raw BLOB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_frames_timestamp ON frames(timestamp)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

func (s *SQLite) Insert(f frame.MacFrame, homeID uint32, srcNodeID, dstNodeID uint8) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO frames (timestamp, speed, rssi, channel, home_id, src_node_id, dst_node_id, payload_raw)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Timestamp, uint8(f.Bitrate), f.RSSI, f.Channel, homeID, srcNodeID, dstNodeID, f.Payload,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert frame: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) GetByID(id int64) (Entry, bool, error) {
	row := s.db.QueryRow(
		`SELECT id, timestamp, speed, rssi, channel, home_id, src_node_id, dst_node_id, payload_raw
		 FROM frames WHERE id = ?`, id,
	)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("store: get frame by id: %w", err)
	}
	return e, true, nil
}

func (s *SQLite) Range(offset, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as "no limit"
	}
	rows, err := s.db.Query(
		`SELECT id, timestamp, speed, rssi, channel, home_id, src_node_id, dst_node_id, payload_raw
		 FROM frames ORDER BY id ASC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("store: range frames: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan frame: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// rowScanner abstracts over *sql.Row and *sql.Rows, both of which expose
// Scan with this signature.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (Entry, error) {
	var e Entry
	var speed uint8
	var rssi int8
	if err := r.Scan(&e.ID, &e.Frame.Timestamp, &speed, &rssi, &e.Frame.Channel,
		&e.HomeID, &e.SrcNodeID, &e.DstNodeID, &e.Frame.Payload); err != nil {
		return Entry{}, err
	}
	e.Frame.Bitrate = region.Speed(speed)
	e.Frame.RSSI = rssi
	return e, nil
}
