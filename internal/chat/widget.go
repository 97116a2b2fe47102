// Package chat implements the assistant widget shared by the customer and
// admin consoles.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

const (
	fallbackReply   = "Sorry — I couldn't understand that."
	connectFailure  = "Sorry — failed to connect to the chat service. Please try again."
	clearedGreeting = "Chat history cleared. How can I help you now?"
	clearFailure    = "Sorry — could not clear chat history. Please try again later."
)

// ErrBusy is returned when a send or clear is already in flight.
var ErrBusy = errors.New("chat request already in progress")

// Binding is the pair of chat endpoints for one console.
type Binding interface {
	Chat(ctx context.Context, message, chatID string) (*client.ChatResponse, error)
	ClearChat(ctx context.Context) error
}

var (
	_ Binding = (*client.CustomerAPI)(nil)
	_ Binding = (*client.AdminAPI)(nil)
)

// Context names the console a widget belongs to. It also keys the
// persisted chat id.
type Context string

const (
	ContextCustomer Context = "customer"
	ContextAdmin    Context = "admin"
)

// Theme is the widget's presentation text.
type Theme struct {
	Title    string
	Greeting string
}

var (
	CustomerTheme = Theme{
		Title:    "Customer Support",
		Greeting: "Hi — I can help with your account, billing, and subscriptions. Ask me anything about your invoices or plan.",
	}
	AdminTheme = Theme{
		Title:    "Admin AI Assistant",
		Greeting: "Hello, Admin. How can I help you analyze the system today?",
	}
)

type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

type Message struct {
	From Sender
	Text string
	At   time.Time
}

// Widget holds one chat transcript.
type Widget struct {
	binding Binding
	context Context
	theme   Theme
	store   tokenstore.Store

	mu         sync.Mutex
	transcript []Message
	busy       bool
}

// NewWidget creates a widget whose transcript starts with the theme's
// greeting. A chat id persisted by an earlier run is reused.
func NewWidget(binding Binding, chatCtx Context, theme Theme, store tokenstore.Store) *Widget {
	w := &Widget{
		binding: binding,
		context: chatCtx,
		theme:   theme,
		store:   store,
	}
	w.transcript = []Message{w.assistant(theme.Greeting)}
	return w
}

func (w *Widget) Theme() Theme {
	return w.theme
}

// ChatID returns the persisted chat session id, if any.
func (w *Widget) ChatID() string {
	id, _ := w.store.Get(tokenstore.ChatKey(string(w.context)))
	return id
}

// Transcript returns a copy of the messages shown so far.
func (w *Widget) Transcript() []Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Message{}, w.transcript...)
}

// Send posts a message and appends the assistant's answer. Failures are
// shown in the transcript; the returned reply is what was appended. Blank
// input is ignored.
func (w *Widget) Send(ctx context.Context, input string) (string, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return "", nil
	}

	if err := w.begin(); err != nil {
		return "", err
	}
	defer w.end()

	w.append(Message{From: SenderUser, Text: text, At: time.Now()})

	chatID := w.ChatID()

	resp, err := w.binding.Chat(ctx, text, chatID)
	if err != nil {
		log.Warn().Err(err).Str("context", string(w.context)).Msg("chat request failed")
		reply := client.MessageOf(err, connectFailure)
		if errors.Is(err, client.ErrUnreachable) {
			reply = connectFailure
		}
		w.append(w.assistant(reply))
		return reply, err
	}

	if id := resp.SessionID(); id != "" && chatID == "" {
		if err := w.store.Set(tokenstore.ChatKey(string(w.context)), id); err != nil {
			log.Warn().Err(err).Msg("failed to persist chat id")
		}
	}

	reply := resp.Reply()
	if reply == "" {
		reply = fallbackReply
	}
	w.append(w.assistant(reply))

	return reply, nil
}

// ClearHistory asks the backend to forget the conversation, then resets the
// transcript and forgets the chat id.
func (w *Widget) ClearHistory(ctx context.Context) error {
	if err := w.begin(); err != nil {
		return err
	}
	defer w.end()

	if err := w.binding.ClearChat(ctx); err != nil {
		log.Warn().Err(err).Str("context", string(w.context)).Msg("chat clear failed")
		w.append(w.assistant(clearFailure))
		return err
	}

	w.mu.Lock()
	w.transcript = []Message{w.assistant(clearedGreeting)}
	w.mu.Unlock()

	return w.store.Clear(tokenstore.ChatKey(string(w.context)))
}

func (w *Widget) begin() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.busy {
		return ErrBusy
	}
	w.busy = true
	return nil
}

func (w *Widget) end() {
	w.mu.Lock()
	w.busy = false
	w.mu.Unlock()
}

func (w *Widget) append(m Message) {
	w.mu.Lock()
	w.transcript = append(w.transcript, m)
	w.mu.Unlock()
}

func (w *Widget) assistant(text string) Message {
	return Message{From: SenderAssistant, Text: text, At: time.Now()}
}
