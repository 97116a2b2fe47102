package chat

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfeidau/revenueguard/internal/client"
	"github.com/wolfeidau/revenueguard/internal/tokenstore"
)

type fakeBinding struct {
	replies  []*client.ChatResponse
	err      error
	clearErr error

	sent    []string
	chatIDs []string
	clears  int
}

func (f *fakeBinding) Chat(_ context.Context, message, chatID string) (*client.ChatResponse, error) {
	f.sent = append(f.sent, message)
	f.chatIDs = append(f.chatIDs, chatID)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.replies[0]
	if len(f.replies) > 1 {
		f.replies = f.replies[1:]
	}
	return resp, nil
}

func (f *fakeBinding) ClearChat(context.Context) error {
	f.clears++
	return f.clearErr
}

func texts(msgs []Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, string(m.From)+": "+m.Text)
	}
	return out
}

func TestWidget_Greeting(t *testing.T) {
	w := NewWidget(&fakeBinding{}, ContextAdmin, AdminTheme, tokenstore.NewMemoryStore())

	assert.Equal(t, []string{"ai: " + AdminTheme.Greeting}, texts(w.Transcript()))
	assert.Equal(t, "Admin AI Assistant", w.Theme().Title)
}

func TestWidget_SendAdoptsChatID(t *testing.T) {
	binding := &fakeBinding{replies: []*client.ChatResponse{
		{Message: "Your balance is 10.", ChatID: "c-1"},
		{Response: "Anything else?", ChatID: "c-2"},
	}}
	store := tokenstore.NewMemoryStore()
	w := NewWidget(binding, ContextCustomer, CustomerTheme, store)
	ctx := context.Background()

	reply, err := w.Send(ctx, "  what is my balance?  ")
	require.NoError(t, err)
	assert.Equal(t, "Your balance is 10.", reply)
	assert.Equal(t, "c-1", w.ChatID())

	_, err = w.Send(ctx, "thanks")
	require.NoError(t, err)

	assert.Equal(t, []string{"what is my balance?", "thanks"}, binding.sent)
	assert.Equal(t, []string{"", "c-1"}, binding.chatIDs)
	assert.Equal(t, "c-1", w.ChatID(), "an adopted id is not replaced")

	stored, ok := store.Get(tokenstore.ChatKey("customer"))
	require.True(t, ok)
	assert.Equal(t, "c-1", stored)

	assert.Equal(t, []string{
		"ai: " + CustomerTheme.Greeting,
		"user: what is my balance?",
		"ai: Your balance is 10.",
		"user: thanks",
		"ai: Anything else?",
	}, texts(w.Transcript()))
}

func TestWidget_ReusesPersistedChatID(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.ChatKey("admin"), "c-9"))
	binding := &fakeBinding{replies: []*client.ChatResponse{{Response: "ok"}}}

	w := NewWidget(binding, ContextAdmin, AdminTheme, store)
	_, err := w.Send(context.Background(), "hi")
	require.NoError(t, err)

	assert.Equal(t, []string{"c-9"}, binding.chatIDs)
}

func TestWidget_BlankInputIgnored(t *testing.T) {
	binding := &fakeBinding{}
	w := NewWidget(binding, ContextCustomer, CustomerTheme, tokenstore.NewMemoryStore())

	reply, err := w.Send(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, reply)
	assert.Empty(t, binding.sent)
	assert.Len(t, w.Transcript(), 1)
}

func TestWidget_SendFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "empty reply", want: fallbackReply},
		{name: "server message", err: &client.Error{Status: http.StatusBadGateway, Message: "model offline"}, want: "model offline"},
		{name: "no server message", err: &client.Error{Status: http.StatusInternalServerError}, want: connectFailure},
		{name: "unreachable", err: fmt.Errorf("%w: dial tcp", client.ErrUnreachable), want: connectFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			binding := &fakeBinding{err: tt.err, replies: []*client.ChatResponse{{}}}
			w := NewWidget(binding, ContextCustomer, CustomerTheme, tokenstore.NewMemoryStore())

			reply, err := w.Send(context.Background(), "hello")
			if tt.err != nil {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, reply)

			transcript := w.Transcript()
			require.Len(t, transcript, 3)
			assert.Equal(t, SenderAssistant, transcript[2].From)
			assert.Equal(t, tt.want, transcript[2].Text)
		})
	}
}

func TestWidget_ClearHistory(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	binding := &fakeBinding{replies: []*client.ChatResponse{{Message: "hi", ChatID: "c-1"}}}
	w := NewWidget(binding, ContextCustomer, CustomerTheme, store)
	ctx := context.Background()

	_, err := w.Send(ctx, "hello")
	require.NoError(t, err)
	require.Equal(t, "c-1", w.ChatID())

	require.NoError(t, w.ClearHistory(ctx))
	assert.Equal(t, 1, binding.clears)
	assert.Equal(t, []string{"ai: " + clearedGreeting}, texts(w.Transcript()))
	assert.Empty(t, w.ChatID())
}

func TestWidget_ClearHistoryFailure(t *testing.T) {
	store := tokenstore.NewMemoryStore()
	require.NoError(t, store.Set(tokenstore.ChatKey("customer"), "c-1"))
	binding := &fakeBinding{clearErr: &client.Error{Status: http.StatusInternalServerError}}
	w := NewWidget(binding, ContextCustomer, CustomerTheme, store)

	require.Error(t, w.ClearHistory(context.Background()))
	assert.Equal(t, []string{
		"ai: " + CustomerTheme.Greeting,
		"ai: " + clearFailure,
	}, texts(w.Transcript()))
	assert.Equal(t, "c-1", w.ChatID(), "chat id kept when clear fails")
}
