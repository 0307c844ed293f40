package store

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/ldyuan/tradenote/parse"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(t.TempDir())
	assert.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func tradeDraft(qty, price float64) *parse.TradeDraft {
	return &parse.TradeDraft{
		Name:      "Widget",
		Kind:      parse.KindSpot,
		Direction: parse.DirectionBuy,
		Quantity:  qty,
		Price:     price,
		Link:      parse.DefaultLink,
	}
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := Open(dir)
	assert.NoError(t, err)
	assert.NoError(t, s.EnsureSchema("alice"))
	assert.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", filepath.Join(dir, "alice.db"))
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trade','note')`)
	assert.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		assert.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	assert.NoError(t, rows.Err())

	assert.True(t, found["trade"])
	assert.True(t, found["note"])
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	id1, err := s.InsertTrade("alice", tradeDraft(1, 1))
	assert.NoError(t, err)
	id2, err := s.InsertTrade("alice", tradeDraft(2, 2))
	assert.NoError(t, err)
	assert.Greater(t, id2, id1)

	// Notes run their own id sequence.
	nid, err := s.InsertNote("alice", &parse.NoteDraft{Name: "n", Body: "b"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), nid)
}

func TestStatsTotals(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.InsertTrade("alice", tradeDraft(2, 3))
	assert.NoError(t, err)

	sell := tradeDraft(1, 5)
	sell.Direction = parse.DirectionSell
	sell.Kind = parse.KindContract
	_, err = s.InsertTrade("alice", sell)
	assert.NoError(t, err)

	_, err = s.InsertNote("alice", &parse.NoteDraft{Name: "n", Body: "b"})
	assert.NoError(t, err)

	sum, err := s.Stats("alice", false)
	assert.NoError(t, err)
	assert.Equal(t, 2, sum.Trades)
	assert.Equal(t, 1, sum.Notes)
	assert.Equal(t, "11.00", sum.TotalValue.StringFixed(2))
	assert.Equal(t, 1, sum.Buys)
	assert.Equal(t, 1, sum.Sells)
	assert.Empty(t, sum.Recent)

	detailed, err := s.Stats("alice", true)
	assert.NoError(t, err)
	assert.Equal(t, 1, detailed.Spot)
	assert.Equal(t, 1, detailed.Contract)
	assert.Len(t, detailed.Recent, 2)
}

func TestStatsRecentIsCapped(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	for i := 0; i < 7; i++ {
		_, err := s.InsertTrade("alice", tradeDraft(float64(i+1), 1))
		assert.NoError(t, err)
	}

	sum, err := s.Stats("alice", true)
	assert.NoError(t, err)
	assert.Equal(t, 7, sum.Trades)
	assert.Len(t, sum.Recent, 5)
	// Most recent insert first.
	assert.Equal(t, 7.0, sum.Recent[0].Quantity)
}

func TestStatsTextOmitsTradeLinesWhenEmpty(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	sum, err := s.Stats("alice", true)
	assert.NoError(t, err)
	text := sum.Text()
	assert.Contains(t, text, "交易记录: 0")
	assert.NotContains(t, text, "总金额")
}

func TestDeleteReportsRemoval(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	id, err := s.InsertTrade("alice", tradeDraft(1, 1))
	assert.NoError(t, err)

	removed, err := s.Delete("alice", TableTrade, id)
	assert.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete("alice", TableTrade, id)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestUndoRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	before, err := s.Stats("alice", false)
	assert.NoError(t, err)

	id, err := s.InsertTrade("alice", tradeDraft(2, 3))
	assert.NoError(t, err)

	op, err := s.Undo("alice")
	assert.NoError(t, err)
	assert.Equal(t, TableTrade, op.Table)
	assert.Equal(t, id, op.ID)

	after, err := s.Stats("alice", false)
	assert.NoError(t, err)
	assert.Equal(t, before.Trades, after.Trades)
	assert.Equal(t, before.Notes, after.Notes)

	// Pointer is consumed: a second undo has no target.
	_, err = s.Undo("alice")
	assert.ErrorIs(t, err, ErrNoUndoTarget)
}

func TestUndoTracksLatestCommit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.InsertTrade("alice", tradeDraft(1, 1))
	assert.NoError(t, err)
	nid, err := s.InsertNote("alice", &parse.NoteDraft{Name: "n", Body: "b"})
	assert.NoError(t, err)

	op, err := s.Undo("alice")
	assert.NoError(t, err)
	assert.Equal(t, TableNote, op.Table)
	assert.Equal(t, nid, op.ID)

	sum, err := s.Stats("alice", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, sum.Trades)
	assert.Equal(t, 0, sum.Notes)
}

func TestPartnersAreIsolated(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	_, err := s.InsertTrade("alice", tradeDraft(1, 1))
	assert.NoError(t, err)
	_, err = s.InsertTrade("bob", tradeDraft(2, 2))
	assert.NoError(t, err)

	aliceSum, err := s.Stats("alice", false)
	assert.NoError(t, err)
	bobSum, err := s.Stats("bob", false)
	assert.NoError(t, err)

	assert.Equal(t, 1, aliceSum.Trades)
	assert.Equal(t, "1.00", aliceSum.TotalValue.StringFixed(2))
	assert.Equal(t, 1, bobSum.Trades)
	assert.Equal(t, "4.00", bobSum.TotalValue.StringFixed(2))

	// Undoing bob's commit leaves alice untouched.
	_, err = s.Undo("bob")
	assert.NoError(t, err)
	aliceSum, err = s.Stats("alice", false)
	assert.NoError(t, err)
	assert.Equal(t, 1, aliceSum.Trades)
}

func TestPartnerFileSanitizesSeparators(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b.db", partnerFile("a/b"))
	assert.Equal(t, "群聊_测试.db", partnerFile(`群聊\测试`))
}
