// Package record persists frame summaries to an SQLite capture journal.
// Raw frame bytes are stored zstd-compressed; summaries stay queryable
// as plain columns.
package record

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"sync"
	"time"

	"pktscope-go/pkg/log"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"
)

// Record is one journaled frame. Src and Dst hold the network-layer
// endpoints in display form and are empty for frames without any.
type Record struct {
	ID         int64     `json:"id"`
	CapturedAt time.Time `json:"captured_at"`
	Length     int       `json:"length"`
	Protocol   string    `json:"protocol"`
	Src        string    `json:"src,omitempty"`
	Dst        string    `json:"dst,omitempty"`
	Info       string    `json:"info"`
	Raw        []byte    `json:"raw,omitempty"`
}

// Store is an open capture journal. Methods are safe for concurrent use.
type Store struct {
	mu   sync.Mutex // protects stmt, enc and dec
	db   *sql.DB
	stmt *sql.Stmt
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// Open creates or opens the journal at path.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", path, err)
	}

	createTableSQL := `
    CREATE TABLE IF NOT EXISTS records (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        captured_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL,
        length INTEGER NOT NULL,
        protocol TEXT NOT NULL,
        src TEXT NOT NULL DEFAULT '',
        dst TEXT NOT NULL DEFAULT '',
        info TEXT NOT NULL,
        raw BLOB
    );`
	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}

	createIndexSQL := `CREATE INDEX IF NOT EXISTS idx_records_protocol ON records (protocol);`
	if _, err = db.Exec(createIndexSQL); err != nil {
		log.Warn().Err(err).Msg("failed to create protocol index, protocol queries may be slow")
	}

	insertSQL := `INSERT INTO records (length, protocol, src, dst, info, raw) VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := db.Prepare(insertSQL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare insert statement: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		stmt.Close()
		db.Close()
		return nil, fmt.Errorf("zstd: failed to initialize encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		stmt.Close()
		db.Close()
		return nil, fmt.Errorf("zstd: failed to initialize decoder: %w", err)
	}

	return &Store{db: db, stmt: stmt, enc: enc, dec: dec}, nil
}

// Append journals one record. Raw, when present, is compressed before
// it is written; a nil Raw journals the summary columns only.
func (s *Store) Append(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stmt == nil {
		return fmt.Errorf("record: store is closed")
	}

	var raw []byte
	if len(rec.Raw) > 0 {
		compressed, err := s.compress(rec.Raw)
		if err != nil {
			return err
		}
		raw = compressed
	}

	if _, err := s.stmt.Exec(rec.Length, rec.Protocol, rec.Src, rec.Dst, rec.Info, raw); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// LastN retrieves the most recent n records in chronological order
// (oldest of the n first), with Raw decompressed.
func (s *Store) LastN(n int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil, fmt.Errorf("record: store is closed")
	}
	if n <= 0 {
		return []Record{}, nil
	}

	query := `SELECT id, captured_at, length, protocol, src, dst, info, raw FROM records ORDER BY id DESC LIMIT ?`
	rows, err := s.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query last %d records: %w", n, err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		var capturedAtStr string
		var raw []byte
		if err := rows.Scan(&rec.ID, &capturedAtStr, &rec.Length, &rec.Protocol, &rec.Src, &rec.Dst, &rec.Info, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		rec.CapturedAt = parseDBTimestamp(capturedAtStr)
		if len(raw) > 0 {
			rec.Raw, err = s.decompress(raw)
			if err != nil {
				return nil, err
			}
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}

	// Reverse the slice
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
	return recs, nil
}

// Close releases the prepared statement and the handle, first error wins.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	if s.stmt != nil {
		if err := s.stmt.Close(); err != nil {
			firstErr = fmt.Errorf("error closing statement: %w", err)
		}
		s.stmt = nil
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("error closing db: %w", err)
		}
		s.db = nil
	}
	if s.dec != nil {
		s.dec.Close()
		s.dec = nil
	}
	return firstErr
}

// compress reuses the store encoder, caller holds mu.
func (s *Store) compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	s.enc.Reset(&buf)
	if _, err := s.enc.Write(data); err != nil {
		_ = s.enc.Close()
		return nil, fmt.Errorf("zstd: failed to write data: %w", err)
	}
	// Close flushes the last block; the encoder is reusable after Reset.
	if err := s.enc.Close(); err != nil {
		return nil, fmt.Errorf("zstd: failed to close writer: %w", err)
	}
	return buf.Bytes(), nil
}

// decompress reuses the store decoder, caller holds mu.
func (s *Store) decompress(data []byte) ([]byte, error) {
	if err := s.dec.Reset(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("zstd: failed to reset decoder: %w", err)
	}
	decompressed, err := io.ReadAll(s.dec)
	if err != nil {
		return nil, fmt.Errorf("zstd: failed to read data: %w", err)
	}
	return decompressed, nil
}

// parseDBTimestamp tries common SQLite timestamp formats.
func parseDBTimestamp(ts string) time.Time {
	formats := []string{
		"2006-01-02 15:04:05", // SQLite default without timezone
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02 15:04:05.999",
	}
	for _, format := range formats {
		t, err := time.Parse(format, ts)
		if err == nil {
			return t
		}
	}
	log.Warn().Str("timestamp", ts).Msg("could not parse captured_at with known formats")
	return time.Time{}
}
