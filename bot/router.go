package bot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ldyuan/tradenote/parse"
	"github.com/ldyuan/tradenote/store"
)

// Command tokens recognized by the router.
const (
	tokenUndo    = "-1"
	tokenConfirm = "确认"
	tokenReject  = "不确认"
)

// isStatsToken matches the stats-request synonyms, case-insensitively.
func isStatsToken(text string) bool {
	switch strings.ToLower(text) {
	case "统计", "stats", "查看统计":
		return true
	}
	return false
}

// isReplyToken matches the confirm/reject tokens.
func isReplyToken(text string) bool {
	switch strings.ToLower(text) {
	case tokenConfirm, "1", tokenReject, "0":
		return true
	}
	return false
}

// Handle classifies one inbound message and returns the reply. Priority:
// undo, stats, confirmation replies (only while a draft is pending), then
// the parser. Every message gets exactly one reply; errors from the
// components surface here as reply text and never propagate further.
func (b *Bot) Handle(partner, text string) string {
	trimmed := strings.TrimSpace(text)

	switch {
	case trimmed == tokenUndo:
		return b.undo(partner)

	case isStatsToken(trimmed):
		sum, err := b.store.Stats(partner, true)
		if err != nil {
			return fmt.Sprintf("统计失败:%v", err)
		}
		return sum.Text()

	case b.coord.Pending(partner) && isReplyToken(trimmed):
		reply, err := b.coord.OnReply(partner, trimmed)
		if errors.Is(err, ErrNoPending) {
			// The auto-confirm timer resolved the draft first.
			return "没有待确认的记录"
		}
		return reply

	default:
		draft, err := parse.Parse(text)
		if err != nil {
			return err.Error()
		}
		return b.coord.Offer(partner, draft)
	}
}

func (b *Bot) undo(partner string) string {
	op, err := b.store.Undo(partner)
	switch {
	case errors.Is(err, store.ErrNoUndoTarget):
		return "没有可撤销的操作"
	case err != nil:
		return fmt.Sprintf("撤销失败:%v", err)
	}
	return fmt.Sprintf("已删除最近一条%s记录(#%d)", op.Table, op.ID)
}
