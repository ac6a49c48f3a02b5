package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Kind identifies a notification transport.
type Kind string

const (
	KindTelegram Kind = "telegram"
	KindDiscord  Kind = "discord"
)

// Notifier sends a composed message to a destination on one transport.
// target is transport-specific: a Telegram chat ID or a Discord channel
// ID.
type Notifier interface {
	// Kind returns the transport identifier.
	Kind() Kind

	// Send delivers text to target.
	Send(ctx context.Context, target, text string) error
}

// Registry maps transport kinds to notifiers so each server's
// configuration can pick its own channel.
type Registry struct {
	mu        sync.RWMutex
	notifiers map[Kind]Notifier
}

// NewRegistry creates an empty notifier registry.
func NewRegistry() *Registry {
	return &Registry{
		notifiers: make(map[Kind]Notifier),
	}
}

// Register adds a notifier to the registry.
func (r *Registry) Register(n Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifiers[n.Kind()] = n
}

// Get retrieves a notifier by transport kind.
func (r *Registry) Get(kind Kind) (Notifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifiers[kind]
	if !ok {
		return nil, fmt.Errorf("unknown notifier kind: %s", kind)
	}
	return n, nil
}

// LogOnly is a dry-run notifier: it logs the message instead of sending
// it, standing in for any transport kind.
type LogOnly struct {
	Transport Kind
}

// Kind returns the transport this notifier stands in for.
func (l LogOnly) Kind() Kind {
	return l.Transport
}

// Send logs the message and reports success.
func (l LogOnly) Send(ctx context.Context, target, text string) error {
	slog.Info("Dry run, not sending", "kind", l.Transport, "target", target, "text", text)
	return nil
}
