package bot

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ldyuan/tradenote/internal/id"
	"github.com/ldyuan/tradenote/parse"
	"github.com/ldyuan/tradenote/store"
)

// ErrNoPending is returned by OnReply when the partner has no draft
// waiting for confirmation.
var ErrNoPending = errors.New("no pending draft")

// Coordinator owns the pending-draft state of every partner. Per partner it
// holds at most one unconfirmed draft and at most one live auto-confirm
// timer; a new draft always supersedes both.
type Coordinator struct {
	store   *store.Store
	send    func(partner, text string) error
	timeout time.Duration

	mu       sync.Mutex
	partners map[string]*pendingState
}

// pendingState is one partner's confirmation slot. Its mutex serializes the
// main loop against that partner's timer callback; partners never share a
// lock.
type pendingState struct {
	mu    sync.Mutex
	draft parse.Draft
	timer *time.Timer
	armID string // token of the live timer, "" when disarmed
}

// NewCoordinator wires the coordinator to the store and an outbound reply
// channel used for timeout notices.
func NewCoordinator(st *store.Store, send func(partner, text string) error, timeout time.Duration) *Coordinator {
	return &Coordinator{
		store:    st,
		send:     send,
		timeout:  timeout,
		partners: make(map[string]*pendingState),
	}
}

func (c *Coordinator) state(partner string) *pendingState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.partners[partner]
	if !ok {
		st = &pendingState{}
		c.partners[partner] = st
	}
	return st
}

// Pending reports whether the partner has a draft awaiting confirmation.
func (c *Coordinator) Pending(partner string) bool {
	st := c.state(partner)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.draft != nil
}

// Offer stores a draft for the partner and arms the auto-confirm timer.
// Any previously pending draft is silently superseded and its timer
// cancelled. Returns the confirmation prompt for the sender.
func (c *Coordinator) Offer(partner string, draft parse.Draft) string {
	st := c.state(partner)
	st.mu.Lock()
	defer st.mu.Unlock()

	st.draft = draft
	c.armLocked(partner, st)
	return draft.Prompt()
}

// armLocked cancels any live timer and arms a fresh one. The arm token lets
// a superseded timer recognize itself as stale when it eventually fires.
// st.mu must be held.
func (c *Coordinator) armLocked(partner string, st *pendingState) {
	if st.timer != nil {
		st.timer.Stop()
	}
	token := id.New()
	st.armID = token
	st.timer = time.AfterFunc(c.timeout, func() {
		c.onTimeout(partner, token)
	})
}

// disarmLocked stops the live timer, if any. st.mu must be held.
func (c *Coordinator) disarmLocked(st *pendingState) {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
	st.armID = ""
}

// OnReply resolves the partner's pending draft against a reply. Confirm
// tokens commit, reject tokens discard. An unrecognized reply disarms the
// running timer, returns guidance and re-arms a fresh confirmation window
// so a typo does not leave the draft pending forever.
func (c *Coordinator) OnReply(partner, text string) (string, error) {
	st := c.state(partner)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.draft == nil {
		return "", ErrNoPending
	}
	c.disarmLocked(st)

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "确认", "1":
		reply, err := c.commitLocked(partner, st)
		if err != nil {
			// Draft stays pending so the partner can retry.
			return fmt.Sprintf("写入失败:%v,可再次回复\"确认\"重试", err), nil
		}
		return "已确认并写入数据库\n" + reply, nil
	case "不确认", "0":
		st.draft = nil
		return "已取消本次写入", nil
	default:
		c.armLocked(partner, st)
		return `无法识别的回复,请回复"确认"/"1"写入或"不确认"/"0"取消`, nil
	}
}

// onTimeout is the deferred auto-confirm. It commits the pending draft only
// if the timer that scheduled it is still the live one; a reply or a newer
// draft that won the race leaves it nothing to do.
func (c *Coordinator) onTimeout(partner, token string) {
	st := c.state(partner)
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.armID != token {
		return
	}
	st.timer = nil
	st.armID = ""

	if st.draft == nil {
		return
	}

	reply, err := c.commitLocked(partner, st)
	if err != nil {
		log.Error().Err(err).Str("partner", partner).Msg("auto-confirm commit failed")
		c.reply(partner, fmt.Sprintf("写入失败:%v,可回复\"确认\"重试", err))
		return
	}
	c.reply(partner, fmt.Sprintf("%s内未收到回复,已自动写入数据库\n%s", c.timeout, reply))
}

// commitLocked writes the pending draft and, on success, clears it and
// returns the post-commit stats text. On failure the draft is kept so the
// commit can be retried. st.mu must be held.
func (c *Coordinator) commitLocked(partner string, st *pendingState) (string, error) {
	switch d := st.draft.(type) {
	case *parse.TradeDraft:
		if _, err := c.store.InsertTrade(partner, d); err != nil {
			return "", err
		}
	case *parse.NoteDraft:
		if _, err := c.store.InsertNote(partner, d); err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown draft type %T", st.draft)
	}
	st.draft = nil

	sum, err := c.store.Stats(partner, false)
	if err != nil {
		// The record is committed; stats are a best-effort addendum.
		log.Warn().Err(err).Str("partner", partner).Msg("stats after commit failed")
		return "统计暂不可用", nil
	}
	return sum.Text(), nil
}

func (c *Coordinator) reply(partner, text string) {
	if err := c.send(partner, text); err != nil {
		log.Error().Err(err).Str("partner", partner).Msg("send reply failed")
	}
}
