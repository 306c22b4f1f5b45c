// Package chatview drives a single open conversation: it polls the thread's
// messages, resolves chat metadata when the caller could not supply it, and
// performs send and delete on behalf of the host UI.
package chatview

import (
	"context"
	"strings"
	"sync"
	"time"

	"unigo/internal/client"
	"unigo/pkg/errors"
	"unigo/pkg/logger"
)

const defaultPollInterval = 3 * time.Second

// ChatAPI is the slice of the API client the view needs.
type ChatAPI interface {
	ListChats(ctx context.Context) ([]client.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]client.Message, error)
	SendMessage(ctx context.Context, chatID, text string) (*client.Message, error)
	DeleteChat(ctx context.Context, chatID string) error
}

type Config struct {
	PollInterval time.Duration

	// OnUpdate is invoked after each poll that changed the rendered state.
	OnUpdate func()
}

// View is one open chat thread. Metadata passed at construction renders
// immediately; otherwise the view stays in a loading state until the one-time
// chat-list lookup resolves it.
type View struct {
	api    ChatAPI
	chatID string

	interval time.Duration
	onUpdate func()

	mu         sync.Mutex
	meta       *client.Chat
	metaLooked bool
	messages   []client.Message
	loaded     bool
	running    bool
	stopChan   chan struct{}
	doneChan   chan struct{}
}

func NewView(api ChatAPI, chatID string, meta *client.Chat, cfg Config) *View {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	return &View{
		api:      api,
		chatID:   chatID,
		meta:     meta,
		interval: interval,
		onUpdate: cfg.OnUpdate,
	}
}

// Start launches the message poll loop for the lifetime of the view.
func (v *View) Start(ctx context.Context) {
	v.mu.Lock()
	if v.running {
		v.mu.Unlock()
		return
	}
	v.running = true
	v.stopChan = make(chan struct{})
	v.doneChan = make(chan struct{})
	stop := v.stopChan
	done := v.doneChan
	v.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()

		v.pollOnce(ctx)

		for {
			select {
			case <-ticker.C:
				v.pollOnce(ctx)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Close stops the poll loop. It is safe to call more than once.
func (v *View) Close() {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return
	}
	v.running = false
	close(v.stopChan)
	done := v.doneChan
	v.mu.Unlock()

	<-done
}

// Ready reports whether chat metadata is available for rendering.
func (v *View) Ready() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.meta != nil
}

// Loaded reports whether at least one message poll has completed.
func (v *View) Loaded() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded
}

func (v *View) Meta() *client.Chat {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.meta == nil {
		return nil
	}
	meta := *v.meta
	return &meta
}

// Messages returns the current snapshot in server order; the view never
// reorders locally.
func (v *View) Messages() []client.Message {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]client.Message, len(v.messages))
	copy(out, v.messages)
	return out
}

// Send posts the text and appends the server-confirmed message to the local
// sequence. Nothing is rendered optimistically; on error the caller keeps
// the draft and may retry.
func (v *View) Send(ctx context.Context, text string) (*client.Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}

	message, err := v.api.SendMessage(ctx, v.chatID, text)
	if err != nil {
		return nil, err
	}

	v.mu.Lock()
	v.messages = append(v.messages, *message)
	v.mu.Unlock()

	v.notifyUpdate()
	return message, nil
}

// Delete removes the thread and all its messages. The host UI must have
// already taken the user through an explicit confirmation; on failure the
// view stays usable and the error is surfaced inline.
func (v *View) Delete(ctx context.Context) error {
	return v.api.DeleteChat(ctx, v.chatID)
}

func (v *View) pollOnce(ctx context.Context) {
	messages, err := v.api.ListMessages(ctx, v.chatID)
	if err != nil {
		// Keep the last good snapshot; the next tick retries.
		logger.Warn("chatview: poll failed for chat %s: %v", v.chatID, err)
		return
	}

	v.mu.Lock()
	v.messages = messages
	v.loaded = true
	needMeta := v.meta == nil && !v.metaLooked
	if needMeta {
		v.metaLooked = true
	}
	v.mu.Unlock()

	if needMeta {
		v.lookupMeta(ctx)
	}

	v.notifyUpdate()
}

// lookupMeta scans the user's chat list once for this thread's metadata,
// for the case where the view was opened without navigation context.
func (v *View) lookupMeta(ctx context.Context) {
	chats, err := v.api.ListChats(ctx)
	if err != nil {
		logger.Warn("chatview: metadata lookup failed for chat %s: %v", v.chatID, err)
		return
	}

	for i := range chats {
		if chats[i].ID == v.chatID {
			v.mu.Lock()
			v.meta = &chats[i]
			v.mu.Unlock()
			return
		}
	}

	logger.Warn("chatview: chat %s not present in user's chat list", v.chatID)
}

func (v *View) notifyUpdate() {
	if v.onUpdate != nil {
		v.onUpdate()
	}
}
