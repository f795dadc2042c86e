// Package personalize swaps product images for the shopper's personalized
// variant: check the backend, trigger generation when needed, poll until the
// image exists, then show it with hover-to-compare.
package personalize

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/wichananm65/pet-shop-storefront/internal/api"
	"github.com/wichananm65/pet-shop-storefront/internal/view"
	"go.uber.org/zap"
)

// State of one product's personalization flow.
type State string

const (
	StateUnchecked   State = "unchecked"
	StateChecking    State = "checking"
	StateHasImage    State = "has_image"
	StateGenerating  State = "generating"
	StateEligible    State = "eligible_not_started"
	StateUnavailable State = "unavailable"
	StatePolling     State = "polling"
	StateResolved    State = "resolved"
	StateTimedOut    State = "timed_out"
	StateCancelled   State = "cancelled"
)

// Terminal reports whether the flow has finished.
func (s State) Terminal() bool {
	switch s {
	case StateUnavailable, StateResolved, StateTimedOut, StateCancelled:
		return true
	}
	return false
}

// Backend is the part of the API the flow talks to.
type Backend interface {
	PersonalizedImage(ctx context.Context, productID int) (*api.PersonalizedStatus, error)
	GeneratePersonalizedImage(ctx context.Context, productID int) (*api.GenerationResult, error)
}

// Auth tells whether the shopper is signed in.
type Auth interface {
	IsLoggedIn() bool
}

type Options struct {
	InitialDelay time.Duration
	Interval     time.Duration
	MaxAttempts  int
	// Now stamps cache-busting parameters.
	Now    func() time.Time
	Logger *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		InitialDelay: time.Second,
		Interval:     2 * time.Second,
		MaxAttempts:  30,
		Now:          time.Now,
	}
}

type Manager struct {
	backend Backend
	auth    Auth
	opts    Options
	logger  *zap.Logger
}

func NewManager(backend Backend, auth Auth, opts Options) *Manager {
	def := DefaultOptions()
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = def.InitialDelay
	}
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{backend: backend, auth: auth, opts: opts, logger: logger}
}

// Flow is a handle on one running personalization flow.
type Flow struct {
	ProductID int

	mu       sync.Mutex
	state    State
	attempts int
	done     chan struct{}
}

func newFlow(productID int) *Flow {
	return &Flow{ProductID: productID, state: StateUnchecked, done: make(chan struct{})}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Attempts is the number of poll checks made so far.
func (f *Flow) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

// Done is closed once the flow reaches a terminal state.
func (f *Flow) Done() <-chan struct{} { return f.done }

func (f *Flow) set(s State) {
	f.mu.Lock()
	f.state = s
	f.mu.Unlock()
}

func (f *Flow) attempt() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	return f.attempts
}

func (f *Flow) finish(s State) State {
	f.set(s)
	close(f.done)
	return s
}

// Check asks the backend for the product's personalized image status. It
// returns nil when the shopper is anonymous or when no usable answer came
// back; failures are logged and never returned.
func (m *Manager) Check(ctx context.Context, productID int) *api.PersonalizedStatus {
	if m.auth == nil || !m.auth.IsLoggedIn() {
		return nil
	}
	log := m.logger.With(zap.Int("product_id", productID))
	log.Debug("checking personalized image")

	st, err := m.backend.PersonalizedImage(ctx, productID)
	if err != nil {
		m.logFailure(log, "failed to check personalized image", err)
		return nil
	}
	log.Debug("check result",
		zap.Bool("has_personalized_image", st.HasPersonalizedImage),
		zap.Bool("is_generating", st.IsGenerating),
		zap.Bool("ready_for_personalization", st.ReadyForPersonalization))
	return st
}

// Trigger asks the backend to start generation. Like Check it swallows
// failures and returns nil.
func (m *Manager) Trigger(ctx context.Context, productID int) *api.GenerationResult {
	if m.auth == nil || !m.auth.IsLoggedIn() {
		return nil
	}
	log := m.logger.With(zap.Int("product_id", productID))

	res, err := m.backend.GeneratePersonalizedImage(ctx, productID)
	if err != nil {
		m.logFailure(log, "error triggering image generation", err)
		return nil
	}
	log.Debug("generation trigger result", zap.String("status", res.Status))
	return res
}

func (m *Manager) logFailure(log *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug(msg, zap.Error(err))
	case api.IsUnauthorized(err):
		log.Warn(msg+": session rejected", zap.Error(err))
	case api.IsNotFound(err):
		log.Info(msg+": product not found", zap.Error(err))
	default:
		log.Warn(msg, zap.Error(err))
	}
}

// Start runs the flow for card in a new goroutine and returns at once.
func (m *Manager) Start(ctx context.Context, card *view.Card) *Flow {
	f := m.NewFlow(card)
	go m.RunFlow(ctx, f, card)
	return f
}

// Run runs the flow for card to completion and returns the finished flow.
func (m *Manager) Run(ctx context.Context, card *view.Card) *Flow {
	f := m.NewFlow(card)
	m.RunFlow(ctx, f, card)
	return f
}

// NewFlow returns an unstarted flow for card, for callers that schedule
// RunFlow themselves.
func (m *Manager) NewFlow(card *view.Card) *Flow {
	return newFlow(card.ProductID)
}

// RunFlow drives f to completion on card and returns its final state.
func (m *Manager) RunFlow(ctx context.Context, f *Flow, card *view.Card) State {
	return m.run(ctx, f, card)
}

func (m *Manager) run(ctx context.Context, f *Flow, card *view.Card) State {
	id := card.ProductID
	log := m.logger.With(zap.Int("product_id", id))

	originalURL := card.Image.RememberOriginal()
	f.set(StateChecking)

	st := m.Check(ctx, id)
	if st == nil && ctx.Err() != nil {
		return f.finish(m.cancelled(log, f, card))
	}
	if st == nil {
		log.Debug("no image info available")
		return f.finish(StateUnavailable)
	}

	switch {
	case st.HasPersonalizedImage:
		f.set(StateHasImage)
		log.Debug("using existing personalized image", zap.String("url", st.PersonalizedImageURL))
		m.Apply(card, st.PersonalizedImageURL)
		return f.finish(StateResolved)

	case st.IsGenerating:
		f.set(StateGenerating)
		log.Debug("image is generating, starting to poll")
		if !card.Image.IsPersonalized() {
			card.AddIndicator(view.IndicatorGenerating)
		}
		return f.finish(m.poll(ctx, f, card))

	case st.ReadyForPersonalization:
		f.set(StateEligible)
		log.Debug("triggering personalized image generation")
		res := m.Trigger(ctx, id)
		if res == nil && ctx.Err() != nil {
			return f.finish(m.cancelled(log, f, card))
		}
		if res == nil {
			return f.finish(StateUnavailable)
		}
		switch res.Status {
		case api.GenerationStarted:
			if !card.Image.IsPersonalized() {
				card.AddIndicator(view.IndicatorGenerating)
			}
			return f.finish(m.poll(ctx, f, card))
		case api.AlreadyExists:
			log.Debug("image already exists", zap.String("url", res.PersonalizedImageURL))
			m.Apply(card, res.PersonalizedImageURL)
			return f.finish(StateResolved)
		}
		log.Debug("generation not started", zap.String("status", res.Status))
		return f.finish(StateUnavailable)
	}

	log.Debug("product not eligible for personalization", zap.String("original_url", originalURL))
	return f.finish(StateUnavailable)
}

// CacheBust appends a t=<unix millis> query parameter to url.
func CacheBust(url string, now time.Time) string {
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "t=" + strconv.FormatInt(now.UnixMilli(), 10)
}
