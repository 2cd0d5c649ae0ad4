// Package session runs the conversational flow: a daily check-in on start,
// then one serialized turn per user message.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/standup/internal/assistant"
	"github.com/julianstephens/standup/internal/constants"
	"github.com/julianstephens/standup/internal/contextdoc"
	"github.com/julianstephens/standup/internal/dispatch"
	"github.com/julianstephens/standup/internal/energy"
	"github.com/julianstephens/standup/internal/goals"
	"github.com/julianstephens/standup/internal/journal"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/protocol"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/streak"
	"github.com/julianstephens/standup/internal/tasks"
	"github.com/julianstephens/standup/internal/utils"
)

// Session owns every store built over one storage provider.
type Session struct {
	mu sync.Mutex

	Clock      utils.Clock
	Tasks      *tasks.Store
	Goals      *goals.Store
	Energy     *energy.Store
	Journal    *journal.Store
	Streak     *streak.Tracker
	Context    *contextdoc.Store
	Dispatcher *dispatch.Dispatcher

	model        assistant.Completer
	previewRunes int
}

// Option configures a Session
type Option func(*Session)

// WithModel sets the completion service. Without one every turn answers
// with the missing-key warning.
func WithModel(c assistant.Completer) Option {
	return func(s *Session) { s.model = c }
}

// WithInputPreview sets how many characters of the user's message are journaled.
func WithInputPreview(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.previewRunes = n
		}
	}
}

func New(p storage.Provider, clock utils.Clock, opts ...Option) *Session {
	j := journal.NewStore(p, clock)
	s := &Session{
		Clock:        clock,
		Tasks:        tasks.NewStore(p, clock),
		Energy:       energy.NewStore(p, clock),
		Journal:      j,
		Goals:        goals.NewStore(p, clock, j),
		Streak:       streak.NewTracker(p, clock),
		Context:      contextdoc.NewStore(p),
		previewRunes: constants.InputPreviewLength,
	}
	s.Dispatcher = dispatch.New(s.Tasks, s.Goals, s.Energy, s.Journal)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasModel reports whether a completion service is configured.
func (s *Session) HasModel() bool {
	return s.model != nil
}

// Start checks in for today and returns the resulting snapshot.
func (s *Session) Start() (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.Streak.CheckIn(); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to update streak: %w", err)
	}
	return s.snapshot()
}

// Snapshot reads the current state of every store without checking in.
func (s *Session) Snapshot() (models.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() (models.Snapshot, error) {
	snap := models.Snapshot{Now: s.Clock.Now()}
	var err error

	if snap.Streak, err = s.Streak.Get(); err != nil {
		return snap, err
	}
	if snap.Energy, err = s.Energy.Latest(); err != nil {
		return snap, err
	}
	if snap.Goals, err = s.Goals.Current(); err != nil {
		return snap, err
	}
	if snap.OpenTasks, err = s.Tasks.OpenTasks(); err != nil {
		return snap, err
	}
	if snap.Habits, err = s.Tasks.Habits(); err != nil {
		return snap, err
	}
	if snap.Context, err = s.Context.Read(); err != nil {
		return snap, err
	}
	return snap, nil
}

// Reply is the outcome of one turn.
type Reply struct {
	// Text is the model's reply with directives removed, or a warning.
	Text          string
	Confirmations []string
	// Warning is set when Text is a configuration or model failure notice.
	Warning bool
}

// Render formats the reply for display, listing confirmations under the text.
func (r Reply) Render() string {
	if len(r.Confirmations) == 0 {
		return r.Text
	}
	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteString("\n\n---\n**Actions:**\n")
	for i, c := range r.Confirmations {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- " + c)
	}
	return b.String()
}

// Turn handles one user message. The message is journaled first; then the
// model is asked for a reply whose directives are applied and journaled in
// order. A missing credential or model failure yields a warning reply and
// leaves the stores untouched. The returned error reports store failures;
// the reply is usable either way.
func (s *Session) Turn(ctx context.Context, input string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if err := s.Journal.Append(constants.UserInputPrefix + preview(input, s.previewRunes)); err != nil {
		logger.Error("Failed to journal user input", "error", err)
		errs = append(errs, err)
	}

	if s.model == nil {
		return Reply{Text: constants.MsgNoAPIKey, Warning: true}, errors.Join(errs...)
	}

	snap, err := s.snapshot()
	if err != nil {
		return warning(err), errors.Join(append(errs, err)...)
	}

	raw, err := s.model.Complete(ctx, assistant.BuildPrompt(snap, input), input)
	if err != nil {
		logger.Warn("Model call failed", "error", err)
		return warning(err), errors.Join(errs...)
	}

	reply, err := s.apply(raw)
	return reply, errors.Join(append(errs, err)...)
}

// ApplyReply runs raw model-style text through the parser and dispatcher
// without calling the model, journaling each confirmation.
func (s *Session) ApplyReply(raw string) (Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(raw)
}

// Act applies actions built outside a model reply, such as CLI commands and
// MCP tool calls, journaling each confirmation like a turn would.
func (s *Session) Act(actions ...protocol.Action) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatch(actions)
}

func (s *Session) apply(raw string) (Reply, error) {
	res := protocol.Parse(raw)
	confirmations, err := s.dispatch(res.Actions)
	logger.Info("Reply applied", "directives", len(res.Actions), "applied", len(confirmations))
	return Reply{Text: res.Display, Confirmations: confirmations}, err
}

func (s *Session) dispatch(actions []protocol.Action) ([]string, error) {
	confirmations, err := s.Dispatcher.Dispatch(actions)

	errs := []error{err}
	for _, c := range confirmations {
		if err := s.Journal.Append(c); err != nil {
			logger.Error("Failed to journal confirmation", "confirmation", c, "error", err)
			errs = append(errs, err)
		}
	}
	return confirmations, errors.Join(errs...)
}

// Locked runs fn while holding the session lock, for callers that use the
// stores directly.
func (s *Session) Locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func warning(err error) Reply {
	return Reply{Text: fmt.Sprintf(constants.MsgErrorFmt, err), Warning: true}
}

// preview shortens s to n characters, marking the cut with "...".
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
