package scoreboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const persistTimeout = 5 * time.Second

// Persister stores the encoded quiz record. Load returns nil, nil when no
// record has been written yet.
type Persister interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Broadcaster pushes a full state snapshot to every connected client.
type Broadcaster interface {
	BroadcastState(st QuizState)
}

// Ack acknowledges an applied action to the client that sent it.
type Ack struct {
	Type      string `json:"type"`
	UpdatedAt string `json:"updatedAt"`
}

type DispatcherConfig struct {
	Store       *Store
	Persister   Persister
	Broadcaster Broadcaster
	Ordering    Ordering
	Clock       clockwork.Clock
	Logger      *slog.Logger
}

// Dispatcher is the only writer of the Store. Each accepted action is
// applied, stamped, persisted and broadcast before the next one starts.
type Dispatcher struct {
	mu          sync.Mutex
	store       *Store
	persister   Persister
	broadcaster Broadcaster
	ordering    Ordering
	clock       clockwork.Clock
	logger      *slog.Logger
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		store:       cfg.Store,
		persister:   cfg.Persister,
		broadcaster: cfg.Broadcaster,
		ordering:    cfg.Ordering,
		clock:       cfg.Clock,
		logger:      cfg.Logger,
	}
	if d.clock == nil {
		d.clock = clockwork.NewRealClock()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Dispatch checks privilege, decodes raw and applies it. Unprivileged
// senders are rejected before the payload is looked at.
func (d *Dispatcher) Dispatch(ctx context.Context, admin bool, raw []byte) (Ack, error) {
	if !admin {
		return Ack{}, ErrUnauthorized
	}
	a, err := ParseAction(raw)
	if err != nil {
		return Ack{}, err
	}
	return d.Apply(ctx, a)
}

// Apply runs a single action. On error the state is untouched and nothing
// is persisted or broadcast.
func (d *Dispatcher) Apply(ctx context.Context, a Action) (Ack, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.store.Snapshot()
	if err := a.apply(&next, d.ordering); err != nil {
		return Ack{}, err
	}
	next.UpdatedAt = FormatTime(d.clock.Now())
	d.store.set(next)

	d.persist(ctx, next)
	if d.broadcaster != nil {
		d.broadcaster.BroadcastState(next.Clone())
	}

	d.logger.Info("action applied", "type", a.Type(), "teams", len(next.Teams), "updated_at", next.UpdatedAt)
	return Ack{Type: a.Type(), UpdatedAt: next.UpdatedAt}, nil
}

// Attach runs subscribe and returns the current state with no broadcast in
// between. A client that subscribes through Attach never receives a state
// older than the one returned.
func (d *Dispatcher) Attach(subscribe func()) QuizState {
	d.mu.Lock()
	defer d.mu.Unlock()
	subscribe()
	return d.store.Snapshot()
}

// persist writes st. Failures are logged; the in-memory state stays
// authoritative.
func (d *Dispatcher) persist(ctx context.Context, st QuizState) {
	if d.persister == nil {
		return
	}
	data, err := EncodeState(st)
	if err != nil {
		d.logger.Error("could not encode state", "error", err)
		return
	}

	// The sender may hang up mid-write; the write should still land.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := d.persister.Save(ctx, data); err != nil {
		d.logger.Error("could not persist state", "error", err)
	}
}

// LoadState builds the startup state from p, falling back to defaults when
// there is no record or it cannot be read.
func LoadState(ctx context.Context, p Persister, now time.Time, logger *slog.Logger) QuizState {
	defaults := Default(now)
	if p == nil {
		return defaults
	}

	raw, err := p.Load(ctx)
	if err != nil {
		logger.Warn("could not read persisted state, starting fresh", "error", err)
		return defaults
	}
	if raw == nil {
		logger.Info("no persisted state, starting fresh")
		return defaults
	}

	st, err := DecodeState(raw, defaults)
	if err != nil {
		logger.Warn("could not read persisted state, starting fresh", "error", err)
		return defaults
	}
	logger.Info("loaded persisted state", "teams", len(st.Teams), "updated_at", st.UpdatedAt)
	return st
}
