// Package store persists confirmed trade and note records, one SQLite
// database per conversation partner. Each partner's keyspace is fully
// independent: separate file, separate id sequences, separate undo pointer.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ldyuan/tradenote/parse"
)

// Table names a partner-scoped record table.
type Table string

const (
	TableTrade Table = "trade"
	TableNote  Table = "note"
)

func (t Table) String() string {
	if t == TableNote {
		return "笔记"
	}
	return "交易"
}

// ErrNoUndoTarget is returned by Undo when no operation has been recorded
// for the partner since startup (or since the last undo).
var ErrNoUndoTarget = errors.New("no operation to undo")

// LastOp points at the most recently committed record of one partner.
// It enables exactly one level of undo and is cleared once consumed.
type LastOp struct {
	Table Table
	ID    int64
}

// Store manages the per-partner databases under a single directory.
// Handles are opened lazily and cached for the life of the store.
type Store struct {
	mu   sync.Mutex
	dir  string
	dbs  map[string]*sql.DB
	last map[string]LastOp
}

// Open prepares a store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:  dir,
		dbs:  make(map[string]*sql.DB),
		last: make(map[string]LastOp),
	}, nil
}

// EnsureSchema opens the partner's database and creates missing tables.
// Called once per known partner at startup.
func (s *Store) EnsureSchema(partner string) error {
	_, err := s.db(partner)
	return err
}

// db returns the partner's cached handle, opening and bootstrapping the
// database on first use. Callers hold no lock.
func (s *Store) db(partner string) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[partner]; ok {
		return db, nil
	}

	path := filepath.Join(s.dir, partnerFile(partner))
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema for %s: %w", partner, err)
	}

	s.dbs[partner] = db
	return db, nil
}

// partnerFile maps a partner name onto a filename. Partner names come from
// chat window titles, which may contain path separators.
func partnerFile(partner string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, partner)
	return clean + ".db"
}

// InsertTrade persists a confirmed trade draft and records it as the
// partner's last operation.
func (s *Store) InsertTrade(partner string, d *parse.TradeDraft) (int64, error) {
	db, err := s.db(partner)
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`
		INSERT INTO trade (date, name, type, direction, number, price, link)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), d.Name, int(d.Kind), int(d.Direction), d.Quantity, d.Price, d.Link,
	)
	if err != nil {
		return 0, fmt.Errorf("insert trade: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert trade: %w", err)
	}

	s.setLast(partner, LastOp{Table: TableTrade, ID: id})
	return id, nil
}

// InsertNote persists a confirmed note draft and records it as the
// partner's last operation.
func (s *Store) InsertNote(partner string, d *parse.NoteDraft) (int64, error) {
	db, err := s.db(partner)
	if err != nil {
		return 0, err
	}

	res, err := db.Exec(`
		INSERT INTO note (date, name, note)
		VALUES (?, ?, ?)`,
		time.Now().UTC(), d.Name, d.Body,
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}

	s.setLast(partner, LastOp{Table: TableNote, ID: id})
	return id, nil
}

// Delete removes exactly one row by id and reports whether a row existed.
func (s *Store) Delete(partner string, table Table, id int64) (bool, error) {
	db, err := s.db(partner)
	if err != nil {
		return false, err
	}

	var res sql.Result
	switch table {
	case TableTrade:
		res, err = db.Exec(`DELETE FROM trade WHERE id = ?`, id)
	case TableNote:
		res, err = db.Exec(`DELETE FROM note WHERE id = ?`, id)
	default:
		return false, fmt.Errorf("unknown table %q", table)
	}
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	return n > 0, nil
}

// Undo deletes the partner's most recent commit. The pointer is consumed
// even if the row was already gone, so a second undo without a new commit
// reports ErrNoUndoTarget.
func (s *Store) Undo(partner string) (LastOp, error) {
	op, ok := s.takeLast(partner)
	if !ok {
		return LastOp{}, ErrNoUndoTarget
	}

	removed, err := s.Delete(partner, op.Table, op.ID)
	if err != nil {
		return op, err
	}
	if !removed {
		return op, fmt.Errorf("record %s #%d no longer exists", string(op.Table), op.ID)
	}
	return op, nil
}

// LastOperation returns the current undo target, if any.
func (s *Store) LastOperation(partner string) (LastOp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.last[partner]
	return op, ok
}

func (s *Store) setLast(partner string, op LastOp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[partner] = op
}

func (s *Store) takeLast(partner string) (LastOp, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	op, ok := s.last[partner]
	if ok {
		delete(s.last, partner)
	}
	return op, ok
}

// Close closes every cached database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var first error
	for partner, db := range s.dbs {
		if err := db.Close(); err != nil && first == nil {
			first = fmt.Errorf("close %s: %w", partner, err)
		}
		delete(s.dbs, partner)
	}
	return first
}
