// Package viewmodel holds the per-screen state machines behind the console's
// front ends.  A Page owns one raw result list and its displayed ordering,
// fetches through an injected Fetcher and commits only the response to the
// most recent request.
package viewmodel

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/pkg/errors"
)

// State is the load state of a page.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

func (s State) String() string { return string(s) }

// ErrStale is delivered to a request whose response arrived after a newer
// request had been issued.  Its result was discarded.
var ErrStale = stderrors.New("viewmodel: response superseded by a newer request")

// Fetcher loads the raw list for a page parameter.
type Fetcher[T any] func(ctx context.Context, param string) ([]T, error)

// Metrics receives page outcomes.  The prometheus AppMetrics satisfies it.
type Metrics interface {
	ObserveLoad(screen, state string, records int)
	ObserveStale(screen string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveLoad(string, string, int) {}
func (noopMetrics) ObserveStale(string)             {}

type options struct {
	logger  logging.Logger
	metrics Metrics
}

// Option configures a Page.
type Option func(*options)

// WithLogger sets the page logger.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// View is a point-in-time copy of a page.  Items is safe to keep and modify.
type View[T any] struct {
	Screen     string
	State      State
	Param      string
	Generation uint64
	Sort       ranking.SortState
	Items      []T
	ErrCode    errors.ErrorCode
}

// Page is the view-model of one screen.  It is safe for concurrent use.
type Page[T any] struct {
	screen  string
	fetch   Fetcher[T]
	fields  *ranking.Set[T]
	logger  logging.Logger
	metrics Metrics

	mu       sync.Mutex
	state    State
	param    string
	hasParam bool
	gen      uint64
	sort     ranking.SortState
	raw      []T
	items    []T
	err      error
	stale    uint64
}

// NewPage returns an idle page.  initial must be derivable by fields.
func NewPage[T any](screen string, fetch Fetcher[T], fields *ranking.Set[T], initial ranking.SortState, opts ...Option) (*Page[T], error) {
	if fetch == nil || fields == nil {
		return nil, errors.Internal("viewmodel: fetcher and field set are required")
	}
	if err := fields.Validate(initial); err != nil {
		return nil, err
	}
	o := options{logger: logging.NewNopLogger(), metrics: noopMetrics{}}
	for _, opt := range opts {
		opt(&o)
	}
	return &Page[T]{
		screen:  screen,
		fetch:   fetch,
		fields:  fields,
		logger:  o.logger.Named(screen),
		metrics: o.metrics,
		state:   StateIdle,
		sort:    initial,
		raw:     []T{},
		items:   []T{},
	}, nil
}

// Screen is the page's name.
func (p *Page[T]) Screen() string { return p.screen }

// Request starts a load for param and returns immediately.  The new
// generation is issued before Request returns, so any response to an earlier
// request is discarded from then on.  The channel receives nil once the
// result is committed, the fetch error once the failure is committed, or
// ErrStale.
func (p *Page[T]) Request(ctx context.Context, param string) <-chan error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.state = StateLoading
	p.param = param
	p.hasParam = true
	p.mu.Unlock()

	p.logger.WithContext(ctx).Debug("load requested",
		logging.String("param", param), logging.Uint64(logging.FieldGeneration, gen))

	done := make(chan error, 1)
	go func() {
		start := time.Now()
		records, err := p.fetch(ctx, param)
		logging.LogBackendCall(p.logger.WithContext(ctx), p.screen, time.Since(start), len(records), err)
		done <- p.commit(ctx, gen, records, err)
		close(done)
	}()
	return done
}

// Load is Request followed by waiting for the outcome.
func (p *Page[T]) Load(ctx context.Context, param string) error {
	return <-p.Request(ctx, param)
}

// SetParam requests a load only when param differs from the current one.
// It returns nil when nothing was requested.
func (p *Page[T]) SetParam(ctx context.Context, param string) <-chan error {
	p.mu.Lock()
	same := p.hasParam && p.param == param
	p.mu.Unlock()
	if same {
		return nil
	}
	return p.Request(ctx, param)
}

// Reload requests the current parameter again.
func (p *Page[T]) Reload(ctx context.Context) <-chan error {
	p.mu.Lock()
	param := p.param
	p.mu.Unlock()
	return p.Request(ctx, param)
}

func (p *Page[T]) commit(ctx context.Context, gen uint64, records []T, fetchErr error) error {
	p.mu.Lock()
	if gen != p.gen {
		p.stale++
		latest := p.gen
		p.mu.Unlock()
		p.metrics.ObserveStale(p.screen)
		p.logger.WithContext(ctx).Debug("discarded stale response",
			logging.Uint64(logging.FieldGeneration, gen), logging.Uint64("latest", latest))
		return ErrStale
	}

	if fetchErr != nil {
		p.state = StateFailed
		p.raw = []T{}
		p.items = []T{}
		p.err = fetchErr
		p.mu.Unlock()
		p.metrics.ObserveLoad(p.screen, StateFailed.String(), 0)
		p.logger.WithContext(ctx).Debug("load failed",
			logging.Uint64(logging.FieldGeneration, gen), logging.Err(fetchErr))
		return fetchErr
	}

	if records == nil {
		records = []T{}
	}
	items, err := p.fields.Derive(records, p.sort)
	if err != nil {
		// unreachable: sort state is validated on every change
		p.mu.Unlock()
		return err
	}
	p.state = StateLoaded
	p.raw = records
	p.items = items
	p.err = nil
	p.mu.Unlock()

	p.metrics.ObserveLoad(p.screen, StateLoaded.String(), len(records))
	p.logger.WithContext(ctx).Debug("load committed",
		logging.Uint64(logging.FieldGeneration, gen), logging.Int("records", len(records)))
	return nil
}

// ToggleSort applies toggle semantics to field and re-derives the displayed
// list.  No request is made.
func (p *Page[T]) ToggleSort(field ranking.SortField) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applySortLocked(p.sort.Toggle(field))
}

// SetSort replaces the sort state and re-derives the displayed list.
func (p *Page[T]) SetSort(state ranking.SortState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.applySortLocked(state)
}

// applySortLocked requires p.mu.
func (p *Page[T]) applySortLocked(state ranking.SortState) error {
	if err := p.fields.Validate(state); err != nil {
		return err
	}
	items, err := p.fields.Derive(p.raw, state)
	if err != nil {
		return err
	}
	p.sort = state
	p.items = items
	return nil
}

// Snapshot returns a copy of the page.
func (p *Page[T]) Snapshot() View[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	v := View[T]{
		Screen:     p.screen,
		State:      p.state,
		Param:      p.param,
		Generation: p.gen,
		Sort:       p.sort,
		Items:      append([]T{}, p.items...),
	}
	if p.state == StateFailed {
		v.ErrCode = errors.GetCode(p.err)
	}
	return v
}

// Raw returns a copy of the list as received.
func (p *Page[T]) Raw() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T{}, p.raw...)
}

// Err returns the error behind a failed state, or nil.
func (p *Page[T]) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// StaleCount is the number of responses discarded so far.
func (p *Page[T]) StaleCount() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stale
}

// Fields lists the sortable fields of this page.
func (p *Page[T]) Fields() []ranking.SortField { return p.fields.Fields() }
