// Package console is a line-oriented Transport for running the bot without
// a chat client. Input lines use "partner: message"; lines without a
// partner prefix are attributed to the default partner.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ldyuan/tradenote/bot"
)

type Transport struct {
	out            io.Writer
	defaultPartner string

	mu     sync.Mutex
	queued []bot.Message
}

// New starts reading lines from r immediately. Messages accumulate until
// the next Receive call drains them, mirroring a polled chat client.
func New(r io.Reader, w io.Writer, defaultPartner string) *Transport {
	t := &Transport{out: w, defaultPartner: defaultPartner}

	go func() {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			t.enqueue(line)
		}
	}()

	return t
}

func (t *Transport) enqueue(line string) {
	partner := t.defaultPartner
	text := line
	if i := strings.Index(line, ": "); i > 0 {
		partner = line[:i]
		text = strings.TrimSpace(line[i+2:])
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.queued = append(t.queued, bot.Message{Partner: partner, Text: text})
}

// Receive drains every queued message.
func (t *Transport) Receive(ctx context.Context) ([]bot.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	msgs := t.queued
	t.queued = nil
	return msgs, nil
}

// Send prints the reply tagged with the partner name.
func (t *Transport) Send(partner, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.out, "[%s] %s\n", partner, text)
	return err
}
