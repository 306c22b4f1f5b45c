// Package notifier implements the polling notification engine: it watches
// the user's chat list for lastMessage changes and raises transient toasts
// for messages the user has not seen, without any persistent connection.
package notifier

import (
	"context"
	"sync"
	"time"

	"unigo/internal/client"
	"unigo/pkg/errors"
	"unigo/pkg/logger"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultToastTTL     = 5 * time.Second

	// fallbackSenderName is shown when neither the other participant nor the
	// mentor can be resolved to a display name.
	fallbackSenderName = "Someone"
)

// ChatLister is the slice of the API client the engine needs.
type ChatLister interface {
	ListChats(ctx context.Context) ([]client.Chat, error)
}

// Toast is one active in-app notification. ID is "{chatID}-{messageID}",
// which also deduplicates re-emission while the toast is pending.
type Toast struct {
	ID         string
	ChatID     string
	SenderName string
	Text       string
	Time       time.Time

	// Chat carries the full chat metadata so a click-through can seed the
	// thread view without an extra fetch.
	Chat client.Chat
}

type Config struct {
	PollInterval time.Duration
	ToastTTL     time.Duration

	// OnToast is invoked for each newly emitted toast.
	OnToast func(Toast)

	// OnSessionExpired is invoked when a poll fails with UNAUTHORIZED; the
	// host is expected to clear the session and stop the engine.
	OnSessionExpired func()
}

// Engine is one login session's notification state. The poll loop runs from
// Start until Stop; navigation only updates the active chat id, it never
// restarts the loop.
type Engine struct {
	api    ChatLister
	userID string

	interval         time.Duration
	ttl              time.Duration
	onToast          func(Toast)
	onSessionExpired func()

	mu           sync.Mutex
	seeded       bool
	seen         map[string]string
	activeChatID string
	toasts       []Toast
	running      bool
	stopChan     chan struct{}
	doneChan     chan struct{}
}

func NewEngine(api ChatLister, userID string, cfg Config) *Engine {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ttl := cfg.ToastTTL
	if ttl <= 0 {
		ttl = defaultToastTTL
	}

	return &Engine{
		api:              api,
		userID:           userID,
		interval:         interval,
		ttl:              ttl,
		onToast:          cfg.OnToast,
		onSessionExpired: cfg.OnSessionExpired,
		seen:             make(map[string]string),
	}
}

// Start launches the poll loop: one immediate seeding poll, then one poll per
// interval. Ticks never overlap; each runs to completion before the next.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	stop := e.stopChan
	done := e.doneChan
	e.mu.Unlock()

	go func() {
		defer close(done)

		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()

		e.pollOnce(ctx)

		for {
			select {
			case <-ticker.C:
				e.pollOnce(ctx)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop tears the loop down and discards all engine state, including pending
// toasts. The engine can be started again for a new session.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stopChan)
	done := e.doneChan
	e.mu.Unlock()

	<-done

	e.mu.Lock()
	e.seeded = false
	e.seen = make(map[string]string)
	e.activeChatID = ""
	e.toasts = nil
	e.mu.Unlock()
}

// SetActiveChat records the chat the user is currently viewing; new messages
// there are marked seen but never raise a toast. An empty id means no chat
// is open.
func (e *Engine) SetActiveChat(chatID string) {
	e.mu.Lock()
	e.activeChatID = chatID
	e.mu.Unlock()
}

// Toasts returns a snapshot of the active toasts in emission order.
func (e *Engine) Toasts() []Toast {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Toast, len(e.toasts))
	copy(out, e.toasts)
	return out
}

// Dismiss removes a toast, whether from user action or expiry. Unknown ids
// are ignored.
func (e *Engine) Dismiss(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, t := range e.toasts {
		if t.ID == id {
			e.toasts = append(e.toasts[:i], e.toasts[i+1:]...)
			return
		}
	}
}

func (e *Engine) pollOnce(ctx context.Context) {
	chats, err := e.api.ListChats(ctx)
	if err != nil {
		if errors.Is(err, "UNAUTHORIZED") {
			logger.Warn("notifier: session expired during poll")
			if e.onSessionExpired != nil {
				e.onSessionExpired()
			}
			return
		}
		// A failed poll never crashes the loop or touches the seen map; the
		// next tick retries.
		logger.Warn("notifier: poll failed: %v", err)
		return
	}

	e.mu.Lock()

	if !e.seeded {
		// First poll of the session establishes the baseline silently, so
		// history that predates login never notifies.
		for _, chat := range chats {
			if chat.LastMessage != nil {
				e.seen[chat.ID] = chat.LastMessage.ID
			} else {
				e.seen[chat.ID] = ""
			}
		}
		e.seeded = true
		e.mu.Unlock()
		return
	}

	var emitted []Toast

	for _, chat := range chats {
		last := chat.LastMessage
		if last == nil {
			continue
		}

		if e.seen[chat.ID] == last.ID {
			continue
		}

		// Mark seen regardless of suppression below, so a suppressed message
		// is never re-surfaced on a later tick.
		e.seen[chat.ID] = last.ID

		if e.activeChatID == chat.ID {
			continue
		}
		if last.SenderID == e.userID {
			continue
		}

		id := chat.ID + "-" + last.ID
		if e.hasToastLocked(id) {
			continue
		}

		toast := Toast{
			ID:         id,
			ChatID:     chat.ID,
			SenderName: e.resolveSenderName(chat),
			Text:       last.Text,
			Time:       last.CreatedAt,
			Chat:       chat,
		}
		e.toasts = append(e.toasts, toast)
		emitted = append(emitted, toast)

		time.AfterFunc(e.ttl, func() { e.Dismiss(id) })
	}

	e.mu.Unlock()

	for _, toast := range emitted {
		if e.onToast != nil {
			e.onToast(toast)
		}
	}
}

func (e *Engine) hasToastLocked(id string) bool {
	for _, t := range e.toasts {
		if t.ID == id {
			return true
		}
	}
	return false
}

// resolveSenderName prefers the other participant's name, then the mentor's,
// then a generic label.
func (e *Engine) resolveSenderName(chat client.Chat) string {
	for _, p := range chat.Participants {
		if p.ID != e.userID && p.Name != "" {
			return p.Name
		}
	}
	if chat.Mentor.Name != "" {
		return chat.Mentor.Name
	}
	return fallbackSenderName
}
