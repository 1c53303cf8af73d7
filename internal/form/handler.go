package form

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	applog "github.com/janisto/greet-playground/internal/platform/logging"
	"github.com/janisto/greet-playground/internal/service/greeter"
)

var (
	// ErrBusy is returned by Begin when the guard already holds a submission
	// for the same form. The button is left untouched.
	ErrBusy = errors.New("submission already in progress")
	// ErrAlreadyRun is returned when a Submission is run a second time.
	ErrAlreadyRun = errors.New("submission already run")
)

// State is the handler's coarse lifecycle.
type State int

const (
	Idle State = iota
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Handler.
type Option func(*Handler)

// WithGuard rejects a submission while another one for key is in flight.
// The check happens before the button is disabled.
func WithGuard(g *Guard, key string) Option {
	return func(h *Handler) {
		h.guard = g
		h.key = key
	}
}

// WithTimeout bounds each collaborator call. Zero means no bound beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(h *Handler) {
		h.timeout = d
	}
}

// WithErrorFormatter sets how failures are rendered into the error element.
func WithErrorFormatter(fn func(error) string) Option {
	return func(h *Handler) {
		if fn != nil {
			h.formatErr = fn
		}
	}
}

// WithAudit names the front end and session recorded in audit events.
func WithAudit(front, session string) Option {
	return func(h *Handler) {
		h.front = front
		h.session = session
	}
}

// Handler reacts to submit events of one form.
type Handler struct {
	svc       greeter.Service
	elems     Elements
	guard     *Guard
	key       string
	timeout   time.Duration
	formatErr func(error) string
	front     string
	session   string

	pending atomic.Int32
}

// NewHandler binds svc to the given elements.
func NewHandler(svc greeter.Service, elems Elements, opts ...Option) (*Handler, error) {
	if svc == nil {
		return nil, errors.New("form: greeter service is required")
	}
	if err := elems.validate(); err != nil {
		return nil, fmt.Errorf("form: %w", err)
	}
	h := &Handler{
		svc:       svc,
		elems:     elems,
		formatErr: ErrorMessage,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// State reports Submitting while any submission holds the button.
func (h *Handler) State() State {
	if h.pending.Load() > 0 {
		return Submitting
	}
	return Idle
}

// Submit handles ev end to end.
func (h *Handler) Submit(ctx context.Context, ev Event) error {
	s, err := h.Begin(ev)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// Begin performs the synchronous part of a submission. It must be called
// from the event dispatch so the default action is still preventable. A
// non-nil Submission must be Run, otherwise the button stays disabled.
func (h *Handler) Begin(ev Event) (*Submission, error) {
	if ev != nil {
		ev.PreventDefault()
	}
	name := h.elems.Name.Value()

	release := func() {}
	if h.guard != nil {
		r, ok := h.guard.TryAcquire(h.key)
		if !ok {
			return nil, ErrBusy
		}
		release = r
	}

	h.pending.Add(1)
	h.elems.Submit.SetDisabled(true)
	return &Submission{h: h, name: name, release: release}, nil
}

// Submission is a begun submit awaiting its collaborator call.
type Submission struct {
	h       *Handler
	name    string
	release func()
	ran     atomic.Bool
}

// Name returns the input value captured by Begin.
func (s *Submission) Name() string {
	return s.name
}

// Run calls the collaborator, re-enables the button and renders the outcome.
// The button is re-enabled exactly once, before any text is written, on
// every exit path.
func (s *Submission) Run(ctx context.Context) error {
	if !s.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}
	if ctx == nil {
		ctx = context.Background()
	}
	h := s.h

	greeting, err := s.call(ctx)
	audit := applog.SubmissionAudit{
		Front:    h.front,
		Session:  h.session,
		NameSize: len(s.name),
		Result:   applog.AuditSuccess,
	}
	if err != nil {
		audit.Result = applog.AuditFailure
		audit.Err = err
		applog.LogSubmission(ctx, audit)
		if h.elems.Error != nil {
			h.elems.Error.SetText(h.formatErr(err))
		}
		return fmt.Errorf("greet: %w", err)
	}
	applog.LogSubmission(ctx, audit)

	h.elems.Greeting.SetText(greeting)
	if h.elems.Error != nil {
		h.elems.Error.SetText("")
	}
	return nil
}

func (s *Submission) call(ctx context.Context) (string, error) {
	defer s.finish()
	if s.h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.h.timeout)
		defer cancel()
	}
	return s.h.svc.Greet(ctx, s.name)
}

// finish re-enables the button before the guard is released, so a new
// Begin never observes a button this submission is about to re-enable.
func (s *Submission) finish() {
	s.h.elems.Submit.SetDisabled(false)
	s.h.pending.Add(-1)
	s.release()
}

// ErrorMessage renders err for end users.
func ErrorMessage(err error) string {
	var callErr *greeter.CallError
	if !errors.As(err, &callErr) {
		return "Something went wrong. Please try again."
	}
	switch callErr.Kind {
	case greeter.CallErrorKindTimeout:
		return "The greeting service took too long to answer. Please try again."
	case greeter.CallErrorKindRateLimited:
		return "Too many greetings at once. Please wait a moment and try again."
	case greeter.CallErrorKindRejected:
		return "The greeting service rejected the request."
	default:
		return "The greeting service is unavailable. Please try again."
	}
}
