// Package reminder places and removes a project's recurring local
// notification through a notification authority.
//
// Enabling a reminder is asynchronous: the permission check may wait on
// the user, and placement waits on the authority. Every request completes
// exactly once with a boolean, and completions are delivered through the
// scheduler's Dispatcher so UI callers receive them on their own loop.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/nhle/portfolio/internal/model"
)

// ErrPermissionDenied is returned when the authority refuses notifications.
var ErrPermissionDenied = errors.New("notification permission denied")

// DefaultTimeout bounds a single enable request.
const DefaultTimeout = 30 * time.Second

// Scheduler enables and disables project reminders.
type Scheduler struct {
	center   Center
	dispatch Dispatcher
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time

	// auth collapses concurrent permission checks into one prompt.
	auth singleflight.Group

	mu   sync.Mutex
	keys map[string]*keyState // identity URI -> state, only while in use
}

// keyState orders the enables and disables of one project. Each call
// takes a ticket when it starts; a placement is dropped if a later call
// has already been applied.
type keyState struct {
	mu      sync.Mutex
	refs    int
	seq     uint64 // last ticket handed out, guarded by Scheduler.mu
	applied uint64 // ticket of the last applied enable or disable
	placed  *Request
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDispatcher sets where EnableAsync completions run. Default Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Scheduler) { s.dispatch = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithTimeout bounds each request; zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) { s.timeout = d }
}

// WithClock replaces time.Now, used when a project has no reminder time.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

// NewScheduler creates a Scheduler over the given authority.
func NewScheduler(center Center, opts ...Option) *Scheduler {
	s := &Scheduler{
		center:   center,
		dispatch: Inline,
		logger:   zap.NewNop(),
		timeout:  DefaultTimeout,
		now:      time.Now,
		keys:     make(map[string]*keyState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// begin registers a call for key and returns its state and ticket.
func (s *Scheduler) begin(key string) (*keyState, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.keys[key]
	if !ok {
		st = &keyState{}
		s.keys[key] = st
	}
	st.refs++
	st.seq++
	return st, st.seq
}

// end releases a call taken with begin, forgetting the key once idle.
func (s *Scheduler) end(key string, st *keyState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st.refs--
	if st.refs == 0 {
		delete(s.keys, key)
	}
}

// tracked returns how many projects have calls in flight.
func (s *Scheduler) tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

type result struct {
	ok  bool
	err error
}

// Enable asks for permission if needed and places the project's reminder.
// It returns true once the reminder is scheduled. A refused permission
// returns false with ErrPermissionDenied; any other status returns false
// without placing anything. Concurrent calls share one permission prompt.
//
// Calls for the same project apply in the order they were made: a Disable
// or a later Enable made while this one waits for permission wins, and
// this call then returns false without placing, unless the request that
// won is identical to its own.
func (s *Scheduler) Enable(ctx context.Context, p model.Project) (bool, error) {
	key := p.URI()
	req := RequestFor(p, s.now())
	st, ticket := s.begin(key)

	// Detached from the caller's cancellation; bounded by the timeout.
	done := make(chan result, 1)
	go func() {
		defer s.end(key, st)

		workCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			workCtx, cancel = context.WithTimeout(workCtx, s.timeout)
			defer cancel()
		}
		ok, err := s.enable(workCtx, p, req, st, ticket)
		done <- result{ok: ok, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-done:
		return res.ok, res.err
	}
}

func (s *Scheduler) enable(ctx context.Context, p model.Project, req Request, st *keyState, ticket uint64) (bool, error) {
	ch := s.auth.DoChan("authorization", func() (any, error) {
		return s.authorize(ctx)
	})

	var status AuthorizationStatus
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		status = res.Val.(AuthorizationStatus)
	}

	if status != StatusAuthorized {
		s.logger.Debug("reminder not placed",
			zap.String("project", p.ID),
			zap.Stringer("status", status))
		return false, nil
	}
	return s.place(ctx, p, req, st, ticket)
}

// authorize returns StatusAuthorized once notifications are allowed,
// prompting when the user has not decided yet.
func (s *Scheduler) authorize(ctx context.Context) (AuthorizationStatus, error) {
	status, err := s.center.AuthorizationStatus(ctx)
	if err != nil {
		return status, fmt.Errorf("reading notification settings: %w", err)
	}
	if status != StatusNotDetermined {
		return status, nil
	}

	granted, err := s.center.RequestAuthorization(ctx, OptionAlert|OptionSound)
	if err != nil {
		return status, fmt.Errorf("requesting notification permission: %w", err)
	}
	if !granted {
		return StatusDenied, ErrPermissionDenied
	}
	return StatusAuthorized, nil
}

// place adds the project's recurring request, replacing any previous one,
// unless a later call for the project has already been applied.
func (s *Scheduler) place(ctx context.Context, p model.Project, req Request, st *keyState, ticket uint64) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if ticket < st.applied {
		superseded := st.placed == nil || *st.placed != req
		s.logger.Debug("reminder superseded",
			zap.String("project", p.ID),
			zap.Bool("dropped", superseded))
		return !superseded, nil
	}

	if err := s.center.Add(ctx, req); err != nil {
		return false, fmt.Errorf("placing reminder for project %s: %w", p.ID, err)
	}
	st.applied = ticket
	st.placed = &req
	s.logger.Info("reminder placed", zap.String("project", p.ID))
	return true, nil
}

// RequestFor builds the notification request for a project. Projects
// without a reminder time use now's hour and minute.
func RequestFor(p model.Project, now time.Time) Request {
	at := model.TimeOfDayFrom(now)
	if p.ReminderTime != nil {
		at = *p.ReminderTime
	}
	return Request{
		ID: p.URI(),
		Content: Content{
			Title:    p.DisplayTitle(),
			Subtitle: p.Detail,
			Sound:    true,
		},
		Trigger: CalendarTrigger{Hour: at.Hour, Minute: at.Minute, Repeats: true},
	}
}

// Task is an in-flight EnableAsync request.
type Task struct {
	done   chan struct{}
	ok     bool
	err    error
	cancel context.CancelFunc
}

// Done is closed when the request has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the request finishes and returns its result.
func (t *Task) Wait() (bool, error) {
	<-t.done
	return t.ok, t.err
}

// Cancel abandons the request. The completion still runs, with false.
func (t *Task) Cancel() { t.cancel() }

// EnableAsync runs Enable in the background. completion, if non-nil, is
// called exactly once through the scheduler's Dispatcher.
func (s *Scheduler) EnableAsync(ctx context.Context, p model.Project, completion func(bool)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer cancel()
		t.ok, t.err = s.Enable(ctx, p)
		if t.err != nil {
			s.logger.Warn("enabling reminder failed",
				zap.String("project", p.ID),
				zap.Error(t.err))
		}
		close(t.done)
		if completion != nil {
			ok := t.ok
			s.dispatch.Dispatch(func() { completion(ok) })
		}
	}()

	return t
}

// Disable removes the project's reminder, and cancels any Enable for it
// still waiting for permission. It is safe to call when nothing is
// scheduled; failures are logged.
func (s *Scheduler) Disable(ctx context.Context, p model.Project) {
	key := p.URI()
	st, ticket := s.begin(key)
	defer s.end(key, st)

	st.mu.Lock()
	defer st.mu.Unlock()

	st.applied = ticket
	st.placed = nil
	if err := s.center.RemovePending(ctx, []string{key}); err != nil {
		s.logger.Warn("removing reminder failed",
			zap.String("project", p.ID),
			zap.Error(err))
	}
}
