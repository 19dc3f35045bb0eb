package bot

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tbxark/foodbot/dialog"
	"github.com/tbxark/foodbot/intent"
	"github.com/tbxark/foodbot/places"
	"github.com/tbxark/foodbot/profile"
	"github.com/tbxark/foodbot/store"
	"github.com/tbxark/foodbot/types"
)

// Store namespaces.
const (
	profileNamespace = "foodbot:profile"
	stackNamespace   = "foodbot:stack"
)

// Config wires the external collaborators of the dispatcher.
type Config struct {
	Oracle   intent.Oracle
	Places   places.Client
	Profiles store.Cache[profile.UserProfile]
	Stacks   store.Cache[dialog.Stack]
}

// Dispatcher is the per-turn entry point. It resolves the dialog stack
// of the conversation, continues it, and begins the appropriate
// top-level dialog when nothing handled the turn. Turns of the same
// conversation are serialized; different conversations run in
// parallel and share no mutable state.
type Dispatcher struct {
	set      *dialog.Set
	oracle   intent.Oracle
	places   places.Client
	profiles store.Store[profile.UserProfile]
	stacks   store.Store[dialog.Stack]

	mu    sync.Mutex
	locks map[string]*conversationLock
}

func NewDispatcher(cfg Config) *Dispatcher {
	d := &Dispatcher{
		oracle:   cfg.Oracle,
		places:   cfg.Places,
		profiles: store.NewConversationStore(cfg.Profiles, profileNamespace),
		stacks:   store.NewConversationStore(cfg.Stacks, stackNamespace),
		locks:    map[string]*conversationLock{},
	}
	d.set = d.buildSet()
	return d
}

// Profile returns the stored profile of the conversation carried by
// ctx, zero when none exists yet.
func (d *Dispatcher) Profile(ctx context.Context) (profile.UserProfile, error) {
	p, _, err := d.profiles.Get(ctx)
	return p, err
}

// OnTurn processes one inbound activity, emitting every outbound
// activity through sink.
func (d *Dispatcher) OnTurn(ctx context.Context, turn *types.Turn, sink dialog.Sink) error {
	unlock := d.lockConversation(turn.ConversationID)
	defer unlock()

	ctx = store.WithConversationKey(ctx, turn.ConversationID)
	logger := slog.With("turn_id", uuid.NewString(), "conversation", turn.ConversationID)

	switch turn.Type {
	case types.ActivityMessage:
		return d.onMessage(ctx, logger, turn, sink)
	case types.ActivityConversationUpdate:
		return d.onConversationUpdate(ctx, turn, sink)
	default:
		logger.Debug("ignoring activity", "type", turn.Type)
		return nil
	}
}

func (d *Dispatcher) onMessage(ctx context.Context, logger *slog.Logger, turn *types.Turn, sink dialog.Sink) (err error) {
	stack, _, err := d.stacks.Get(ctx)
	if err != nil {
		return fmt.Errorf("load dialog stack: %w", err)
	}
	out := &countingSink{sink: sink}
	dc := dialog.NewContext(d.set, out, &stack)

	// The stack is written back no matter how the turn ends; no branch
	// may skip persistence.
	defer func() {
		if saveErr := d.stacks.Set(ctx, stack); saveErr != nil && err == nil {
			err = fmt.Errorf("save dialog stack: %w", saveErr)
		}
	}()

	handled, err := dc.Continue(ctx, turn)
	if err != nil {
		return err
	}
	if handled {
		if !stack.Empty() || out.sent > 0 {
			return nil
		}
		// The stack emptied without a single outbound activity (an
		// abandoned name prompt ends this way). A turn must never be
		// silent: apologize and start over.
		logger.Debug("dialog ended silently, starting over")
		if err := out.Send(ctx, types.MessageActivity(startOverText)); err != nil {
			return err
		}
	}

	p, _, err := d.profiles.Get(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	name := DialogWhichFood
	if !p.HasName() {
		name = DialogWhichName
	}
	logger.Debug("beginning top-level dialog", "dialog", name)
	return dc.Begin(ctx, name, dialog.Provided(turn.Text))
}

func (d *Dispatcher) onConversationUpdate(ctx context.Context, turn *types.Turn, sink dialog.Sink) error {
	// Greet only when someone other than the bot itself joined.
	if len(turn.MembersAdded) > 0 && turn.MembersAdded[0].ID != turn.Recipient.ID {
		return sink.Send(ctx, types.MessageActivity(WelcomeText))
	}
	return nil
}

type conversationLock struct {
	mu      sync.Mutex
	waiters int
}

// lockConversation serializes turns of one conversation. Entries are
// dropped when the last waiter releases them, so the map stays
// proportional to in-flight turns rather than conversations ever seen.
func (d *Dispatcher) lockConversation(id string) func() {
	d.mu.Lock()
	l, ok := d.locks[id]
	if !ok {
		l = &conversationLock{}
		d.locks[id] = l
	}
	l.waiters++
	d.mu.Unlock()
	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		d.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(d.locks, id)
		}
		d.mu.Unlock()
	}
}

// countingSink lets the dispatcher tell a silent turn from a handled
// one.
type countingSink struct {
	sink dialog.Sink
	sent int
}

func (s *countingSink) Send(ctx context.Context, activity *types.Activity) error {
	s.sent++
	return s.sink.Send(ctx, activity)
}
