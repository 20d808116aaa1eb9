package state

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/apu-inti/guardian/pkg/content"
	"github.com/apu-inti/guardian/pkg/i18n"
	"github.com/apu-inti/guardian/pkg/path"
)

// Default timings.
const (
	DefaultQuizReturnDelay = 4 * time.Second
	DefaultFrameInterval   = 16 * time.Millisecond
)

// Engine applies player actions to a GameState. It holds no session data;
// callers load a state, call one method and save the result.
type Engine struct {
	content         *content.Bundle
	quizReturnDelay time.Duration
	frameInterval   time.Duration
	defaultLanguage string
	rand            path.Rand
	now             func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithQuizReturnDelay sets how long the quiz result stays on screen
// before returning to the Costa hub.
func WithQuizReturnDelay(d time.Duration) Option {
	return func(e *Engine) { e.quizReturnDelay = d }
}

// WithFrameInterval sets the sampling interval of map walks.
func WithFrameInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.frameInterval = d
		}
	}
}

// WithSeed makes animations reproducible. A zero seed keeps the
// time-based source.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		if seed != 0 {
			e.rand = &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
		}
	}
}

// WithRand replaces the random source.
func WithRand(r path.Rand) Option {
	return func(e *Engine) { e.rand = r }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithDefaultLanguage sets the language of new sessions. Regional tags
// are reduced to their base code; unsupported codes keep the default.
func WithDefaultLanguage(code string) Option {
	return func(e *Engine) {
		if tag, ok := i18n.ParseTag(code); ok {
			e.defaultLanguage = i18n.Code(tag)
		}
	}
}

// NewEngine returns an Engine over the given content and registers the
// content's messages for formatting.
func NewEngine(b *content.Bundle, opts ...Option) (*Engine, error) {
	if err := i18n.Register(b); err != nil {
		return nil, fmt.Errorf("register messages: %w", err)
	}
	e := &Engine{
		content:         b,
		quizReturnDelay: DefaultQuizReturnDelay,
		frameInterval:   DefaultFrameInterval,
		defaultLanguage: i18n.Code(i18n.DefaultTag()),
		rand:            &lockedRand{r: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))},
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Content returns the bundle the engine renders from.
func (e *Engine) Content() *content.Bundle {
	return e.content
}

// Now returns the engine clock.
func (e *Engine) Now() time.Time {
	return e.now()
}

func (e *Engine) locale(gs *GameState) *content.Locale {
	return e.content.Locale(gs.Language)
}

func (e *Engine) touch(gs *GameState) {
	gs.UpdatedAt = e.now()
}

// lockedRand makes a *rand.Rand safe to share between requests.
type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}
