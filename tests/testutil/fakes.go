package testutil

import (
	"context"
	"sync"

	"github.com/nhle/portfolio/internal/gating"
	"github.com/nhle/portfolio/internal/reminder"
	"github.com/nhle/portfolio/internal/search"
)

// FakeCenter is an in-memory notification authority.
type FakeCenter struct {
	mu sync.Mutex

	Status reminder.AuthorizationStatus
	Grant  bool
	// Gate, when set, blocks RequestAuthorization until it is closed.
	Gate chan struct{}
	// AddErr is returned by Add when set.
	AddErr error

	AuthRequests int
	Adds         int
	Requests     map[string]reminder.Request
}

var _ reminder.Center = (*FakeCenter)(nil)

// NewFakeCenter returns a center in the given state that grants
// permission when asked.
func NewFakeCenter(status reminder.AuthorizationStatus) *FakeCenter {
	return &FakeCenter{
		Status:   status,
		Grant:    true,
		Requests: make(map[string]reminder.Request),
	}
}

func (c *FakeCenter) AuthorizationStatus(ctx context.Context) (reminder.AuthorizationStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Status, nil
}

func (c *FakeCenter) RequestAuthorization(ctx context.Context, _ reminder.AuthorizationOptions) (bool, error) {
	c.mu.Lock()
	gate := c.Gate
	c.AuthRequests++
	c.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Grant {
		c.Status = reminder.StatusAuthorized
	} else {
		c.Status = reminder.StatusDenied
	}
	return c.Grant, nil
}

func (c *FakeCenter) Add(ctx context.Context, req reminder.Request) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.AddErr != nil {
		return c.AddErr
	}
	c.Adds++
	c.Requests[req.ID] = req
	return nil
}

func (c *FakeCenter) RemovePending(ctx context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.Requests, id)
	}
	return nil
}

// Pending returns a copy of the scheduled requests.
func (c *FakeCenter) Pending() map[string]reminder.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]reminder.Request, len(c.Requests))
	for k, v := range c.Requests {
		out[k] = v
	}
	return out
}

// Counts returns the number of permission requests and placements.
func (c *FakeCenter) Counts() (authRequests, adds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.AuthRequests, c.Adds
}

// FakeIndex is an in-memory search index that records its calls.
type FakeIndex struct {
	mu sync.Mutex

	Err     error
	Records map[string]search.Record

	IndexCalls        int
	IdentifierDeletes [][]string
	DomainDeletes     [][]string
}

var _ search.Index = (*FakeIndex)(nil)

// NewFakeIndex returns an empty index.
func NewFakeIndex() *FakeIndex {
	return &FakeIndex{Records: make(map[string]search.Record)}
}

func (f *FakeIndex) Index(ctx context.Context, records []search.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IndexCalls++
	if f.Err != nil {
		return f.Err
	}
	for _, r := range records {
		f.Records[r.ID] = r
	}
	return nil
}

func (f *FakeIndex) DeleteByIdentifier(ctx context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.IdentifierDeletes = append(f.IdentifierDeletes, ids)
	if f.Err != nil {
		return f.Err
	}
	for _, id := range ids {
		delete(f.Records, id)
	}
	return nil
}

func (f *FakeIndex) DeleteByDomain(ctx context.Context, domains []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DomainDeletes = append(f.DomainDeletes, domains)
	if f.Err != nil {
		return f.Err
	}
	for _, d := range domains {
		for id, r := range f.Records {
			if r.Domain == d {
				delete(f.Records, id)
			}
		}
	}
	return nil
}

// Len returns the number of indexed records.
func (f *FakeIndex) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Records)
}

// FakePrompter records review requests.
type FakePrompter struct {
	mu     sync.Mutex
	Scenes []gating.Scene
}

func (p *FakePrompter) RequestReview(scene gating.Scene) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Scenes = append(p.Scenes, scene)
}

// Requests returns how many reviews were requested.
func (p *FakePrompter) Requests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Scenes)
}

// MapSettings is an in-memory settings store.
type MapSettings struct {
	mu     sync.Mutex
	values map[string]bool
}

func NewMapSettings() *MapSettings {
	return &MapSettings{values: make(map[string]bool)}
}

func (m *MapSettings) Bool(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MapSettings) SetBool(key string, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
