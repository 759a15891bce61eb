// Package session runs one shopper conversation: it reloads state for every
// turn, asks the rule engine, optionally the language model, and records the
// exchange.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeanpaul/tvyn/internal/assistant"
	"github.com/jeanpaul/tvyn/internal/catalog"
	"github.com/jeanpaul/tvyn/internal/dislikes"
	"github.com/jeanpaul/tvyn/internal/insights"
	"github.com/jeanpaul/tvyn/internal/logger"
	"github.com/jeanpaul/tvyn/internal/provider"
)

var ErrEmptyUtterance = errors.New("session: empty utterance")

// Source says which collaborator produced a reply.
type Source string

const (
	SourceRules Source = "rules"
	SourceLLM   Source = "llm"
)

type Turn struct {
	ID     string           `json:"id"`
	At     time.Time        `json:"at"`
	User   string           `json:"user"`
	Bot    string           `json:"bot"`
	Intent assistant.Intent `json:"intent"`
	Source Source           `json:"source"`
}

// Catalog loads the current product list.
type Catalog interface {
	Load() ([]catalog.Product, error)
}

// Transcript is the durable record of exchanges.
type Transcript interface {
	Append(user, bot string) error
	ReadAll() (string, error)
	Open() (io.ReadCloser, error)
	Exists() bool
}

// Responder answers utterances no rule recognises.
type Responder interface {
	Complete(ctx context.Context, msgs []provider.Message) (string, error)
}

type Options struct {
	// SystemPrompt is the persona handed to the Responder.
	SystemPrompt string
	// LLMFallback routes fallback-intent turns to the Responder.
	LLMFallback bool
	LLMTimeout  time.Duration
	Keywords    int
}

type Deps struct {
	Catalog    Catalog
	Dislikes   dislikes.Store
	Transcript Transcript
	Engine     *assistant.Engine
	Responder  Responder
	Log        *slog.Logger
}

type Session struct {
	id   string
	deps Deps
	opts Options
	log  *slog.Logger
	now  func() time.Time

	mu      sync.Mutex
	history []Turn
}

func New(deps Deps, opts Options) *Session {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Engine == nil {
		deps.Engine = assistant.NewEngine(assistant.DefaultName, deps.Dislikes)
	}
	if opts.Keywords <= 0 {
		opts.Keywords = insights.DefaultLimit
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 60 * time.Second
	}
	id := uuid.NewString()
	return &Session{
		id:   id,
		deps: deps,
		opts: opts,
		log:  deps.Log.With(logger.Module("session"), slog.String("session_id", id)),
		now:  time.Now,
	}
}

func (s *Session) ID() string { return s.id }

// Greeting is shown before the first turn.
func (s *Session) Greeting() string { return s.deps.Engine.Greeting() }

// Handle processes one utterance to completion. Turns are serialised so the
// dislike file and the transcript see one writer at a time.
func (s *Session) Handle(ctx context.Context, utterance string) (Turn, error) {
	if strings.TrimSpace(utterance) == "" {
		return Turn{}, ErrEmptyUtterance
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.deps.Catalog.Load()
	if err != nil {
		s.log.Warn("catalog unavailable, answering from an empty shelf", logger.Err(err))
		products = []catalog.Product{}
	}

	set, err := s.deps.Dislikes.Load()
	if err != nil {
		return Turn{}, fmt.Errorf("load dislikes: %w", err)
	}

	reply, err := s.deps.Engine.Answer(utterance, products, set)
	if err != nil {
		return Turn{}, err
	}

	turn := Turn{
		ID:     uuid.NewString(),
		At:     s.now(),
		User:   utterance,
		Bot:    reply.Text,
		Intent: reply.Intent,
		Source: SourceRules,
	}

	if reply.Intent == assistant.IntentFallback && s.opts.LLMFallback && s.deps.Responder != nil {
		if text, ok := s.askModel(ctx, utterance); ok {
			turn.Bot = text
			turn.Source = SourceLLM
		}
	}

	if err := s.deps.Transcript.Append(turn.User, turn.Bot); err != nil {
		return turn, fmt.Errorf("log turn: %w", err)
	}

	s.history = append(s.history, turn)
	s.log.Info("turn handled",
		slog.String("turn_id", turn.ID),
		slog.String("intent", string(turn.Intent)),
		slog.String("source", string(turn.Source)),
		slog.Int("products", len(products)),
	)
	return turn, nil
}

// askModel returns false when the model fails or says nothing; the caller
// keeps the rule engine's greeting in that case.
func (s *Session) askModel(ctx context.Context, utterance string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LLMTimeout)
	defer cancel()

	text, err := s.deps.Responder.Complete(ctx, provider.Persona(s.opts.SystemPrompt, utterance))
	if err != nil {
		s.log.Warn("language model failed, using greeting", logger.Err(err))
		return "", false
	}
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	return text, true
}

// History returns the turns of this process, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.history))
	copy(out, s.history)
	return out
}

// Reset clears the in-memory history. The transcript is untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// TopKeywords ranks words from every user line in the transcript.
func (s *Session) TopKeywords(n int) ([]insights.Keyword, error) {
	if n <= 0 {
		n = s.opts.Keywords
	}
	rc, err := s.deps.Transcript.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return insights.TopKeywords(rc, n)
}

// Transcript returns the full transcript and whether one exists yet.
func (s *Session) Transcript() (string, bool, error) {
	if !s.deps.Transcript.Exists() {
		return "", false, nil
	}
	text, err := s.deps.Transcript.ReadAll()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func (s *Session) Products() ([]catalog.Product, error) {
	return s.deps.Catalog.Load()
}

func (s *Session) Dislikes() ([]string, error) {
	set, err := s.deps.Dislikes.Load()
	if err != nil {
		return nil, err
	}
	return set.Names(), nil
}
