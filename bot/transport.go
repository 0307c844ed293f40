package bot

import "context"

// Message is one inbound chat message attributed to a partner.
type Message struct {
	Partner string
	Text    string
}

// Transport is the chat-client boundary. Receive returns whatever messages
// arrived since the last call; Send delivers a reply to one partner.
// Delivery is best-effort, the bot does not retry failed sends.
type Transport interface {
	Receive(ctx context.Context) ([]Message, error)
	Send(partner, text string) error
}
