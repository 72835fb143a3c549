package viewmodel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/pkg/errors"
	"github.com/aushadhiai/screening-console/pkg/types/screening"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

func hit(name string, ic50 float64) screening.MolecularHit {
	return screening.MolecularHit{MoleculeIdentifier: name, DiseaseProteinName: name, Potency: ic50}
}

func names(hs []screening.MolecularHit) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.DiseaseProteinName
	}
	return out
}

// scriptedFetcher answers per parameter and can hold a parameter's answer
// until released.
type scriptedFetcher struct {
	mu      sync.Mutex
	answers map[string][]screening.MolecularHit
	fail    map[string]error
	gates   map[string]chan struct{}
	calls   []string
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		answers: make(map[string][]screening.MolecularHit),
		fail:    make(map[string]error),
		gates:   make(map[string]chan struct{}),
	}
}

func (s *scriptedFetcher) hold(param string) func() {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[param] = ch
	s.mu.Unlock()
	return func() { close(ch) }
}

func (s *scriptedFetcher) fetch(ctx context.Context, param string) ([]screening.MolecularHit, error) {
	s.mu.Lock()
	s.calls = append(s.calls, param)
	gate := s.gates[param]
	answer, err := s.answers[param], s.fail[param]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return answer, err
}

func (s *scriptedFetcher) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type countingMetrics struct {
	mu     sync.Mutex
	loads  map[string]int
	stales int
}

func (m *countingMetrics) ObserveLoad(_, state string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loads == nil {
		m.loads = map[string]int{}
	}
	m.loads[state]++
}

func (m *countingMetrics) ObserveStale(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stales++
}

func newHitsPage(t *testing.T, f *scriptedFetcher, opts ...Option) *Page[screening.MolecularHit] {
	t.Helper()
	p, err := NewPage(ScreenHits, f.fetch, ranking.HitSet(ranking.English()), potencyAsc, opts...)
	require.NoError(t, err)
	return p
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewPage_Idle(t *testing.T) {
	p := newHitsPage(t, newScriptedFetcher())
	v := p.Snapshot()
	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, uint64(0), v.Generation)
	assert.Equal(t, potencyAsc, v.Sort)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
}

func TestNewPage_RejectsUnsupportedInitialSort(t *testing.T) {
	f := newScriptedFetcher()
	_, err := NewPage(ScreenHits, f.fetch, ranking.HitSet(nil), ranking.SortState{Field: ranking.FieldMatch, Direction: ranking.Asc})
	assert.True(t, errors.IsInvalidParam(err))

	_, err = NewPage[screening.MolecularHit](ScreenHits, nil, ranking.HitSet(nil), potencyAsc)
	assert.Error(t, err)
}

// ---------------------------------------------------------------------------
// Transitions
// ---------------------------------------------------------------------------

func TestPage_LoadDerivesDefaultOrder(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["cancer"] = []screening.MolecularHit{hit("X", 5.0), hit("Y", 0.5), hit("Z", 2.0)}
	p := newHitsPage(t, f)

	require.NoError(t, p.Load(context.Background(), "cancer"))

	v := p.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.Equal(t, "cancer", v.Param)
	assert.Equal(t, uint64(1), v.Generation)
	assert.Equal(t, []string{"Y", "Z", "X"}, names(v.Items))
	assert.Equal(t, []string{"X", "Y", "Z"}, names(p.Raw()))
	assert.Equal(t, errors.ErrorCode(""), v.ErrCode)
}

func TestPage_RequestIsLoadingUntilCommitted(t *testing.T) {
	f := newScriptedFetcher()
	release := f.hold("flu")
	p := newHitsPage(t, f)

	done := p.Request(context.Background(), "flu")
	assert.Equal(t, StateLoading, p.Snapshot().State)
	assert.Equal(t, "flu", p.Snapshot().Param)

	release()
	assert.NoError(t, <-done)
	assert.Equal(t, StateLoaded, p.Snapshot().State)
}

func TestPage_FailureResetsToEmpty(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["ok"] = []screening.MolecularHit{hit("A", 1)}
	f.fail["bad"] = errors.New(errors.CodeUpstreamStatus, "backend said 502").WithDetail("<html>bad gateway</html>")
	metrics := &countingMetrics{}
	p := newHitsPage(t, f, WithMetrics(metrics))

	require.NoError(t, p.Load(context.Background(), "ok"))
	require.Len(t, p.Snapshot().Items, 1)

	err := p.Load(context.Background(), "bad")
	assert.True(t, errors.IsCode(err, errors.CodeUpstreamStatus))

	v := p.Snapshot()
	assert.Equal(t, StateFailed, v.State)
	assert.Empty(t, v.Items)
	assert.Empty(t, p.Raw())
	assert.Equal(t, errors.CodeUpstreamStatus, v.ErrCode)
	assert.Error(t, p.Err())
	assert.Equal(t, map[string]int{"loaded": 1, "failed": 1}, metrics.loads)
}

func TestPage_NilResultIsEmptyLoaded(t *testing.T) {
	p := newHitsPage(t, newScriptedFetcher())
	require.NoError(t, p.Load(context.Background(), "none"))
	v := p.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.NotNil(t, v.Items)
	assert.Empty(t, v.Items)
}

func TestPage_RecoversAfterFailure(t *testing.T) {
	f := newScriptedFetcher()
	f.fail["d"] = errors.New(errors.CodeUpstreamTransport, "refused")
	p := newHitsPage(t, f)

	assert.Error(t, p.Load(context.Background(), "d"))
	f.mu.Lock()
	delete(f.fail, "d")
	f.answers["d"] = []screening.MolecularHit{hit("A", 1)}
	f.mu.Unlock()

	require.NoError(t, <-p.Reload(context.Background()))
	v := p.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.Len(t, v.Items, 1)
	assert.Nil(t, p.Err())
	assert.Equal(t, 2, f.callCount(), "no automatic retry")
}

// ---------------------------------------------------------------------------
// Sorting without refetch
// ---------------------------------------------------------------------------

func TestPage_ToggleSortDoesNotFetch(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["d"] = []screening.MolecularHit{hit("X", 5.0), hit("Y", 0.5), hit("Z", 2.0)}
	p := newHitsPage(t, f)
	require.NoError(t, p.Load(context.Background(), "d"))

	require.NoError(t, p.ToggleSort(ranking.FieldName))
	assert.Equal(t, ranking.SortState{Field: ranking.FieldName, Direction: ranking.Asc}, p.Snapshot().Sort)
	assert.Equal(t, []string{"X", "Y", "Z"}, names(p.Snapshot().Items))

	require.NoError(t, p.ToggleSort(ranking.FieldName))
	assert.Equal(t, []string{"Z", "Y", "X"}, names(p.Snapshot().Items))

	require.NoError(t, p.ToggleSort(ranking.FieldPotency))
	assert.Equal(t, []string{"Y", "Z", "X"}, names(p.Snapshot().Items))

	assert.Equal(t, 1, f.callCount())
}

func TestPage_ConcurrentTogglesAreSerialised(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["d"] = []screening.MolecularHit{hit("X", 5.0), hit("Y", 0.5), hit("Z", 2.0)}
	p := newHitsPage(t, f)
	require.NoError(t, p.Load(context.Background(), "d"))

	// The first toggle of a new field selects Asc, each further one flips it,
	// so an even number of toggles always lands on Desc.
	const toggles = 64
	var wg sync.WaitGroup
	for i := 0; i < toggles; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, p.ToggleSort(ranking.FieldName))
		}()
	}
	wg.Wait()

	v := p.Snapshot()
	assert.Equal(t, ranking.SortState{Field: ranking.FieldName, Direction: ranking.Desc}, v.Sort)
	assert.Equal(t, []string{"Z", "Y", "X"}, names(v.Items))
}

func TestPage_SetSortRejectsUnknownField(t *testing.T) {
	p := newHitsPage(t, newScriptedFetcher())
	err := p.SetSort(ranking.SortState{Field: ranking.FieldMatch, Direction: ranking.Asc})
	assert.True(t, errors.IsInvalidParam(err))
	assert.Equal(t, potencyAsc, p.Snapshot().Sort)
}

func TestPage_SortStateSurvivesReload(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["d"] = []screening.MolecularHit{hit("B", 1), hit("A", 2)}
	p := newHitsPage(t, f)
	require.NoError(t, p.SetSort(ranking.SortState{Field: ranking.FieldName, Direction: ranking.Desc}))

	require.NoError(t, p.Load(context.Background(), "d"))
	assert.Equal(t, []string{"B", "A"}, names(p.Snapshot().Items))
}

func TestPage_SnapshotIsACopy(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["d"] = []screening.MolecularHit{hit("A", 1)}
	p := newHitsPage(t, f)
	require.NoError(t, p.Load(context.Background(), "d"))

	v := p.Snapshot()
	v.Items[0].DiseaseProteinName = "mutated"
	assert.Equal(t, "A", p.Snapshot().Items[0].DiseaseProteinName)
}

// ---------------------------------------------------------------------------
// Parameter changes and stale responses
// ---------------------------------------------------------------------------

func TestPage_SetParamOnlyOnChange(t *testing.T) {
	f := newScriptedFetcher()
	p := newHitsPage(t, f)
	ctx := context.Background()

	require.NotNil(t, p.SetParam(ctx, "a"))
	assert.Nil(t, p.SetParam(ctx, "a"))
	done := p.SetParam(ctx, "b")
	require.NotNil(t, done)
	assert.NoError(t, <-done)

	assert.Equal(t, uint64(2), p.Snapshot().Generation)
}

func TestPage_SlowEarlierResponseIsDiscarded(t *testing.T) {
	f := newScriptedFetcher()
	f.answers["A"] = []screening.MolecularHit{hit("from-A", 1)}
	f.answers["B"] = []screening.MolecularHit{hit("from-B", 1)}
	releaseA := f.hold("A")

	core, logs := observer.New(zapcore.DebugLevel)
	metrics := &countingMetrics{}
	p := newHitsPage(t, f, WithLogger(logging.NewLoggerFromCore(core)), WithMetrics(metrics))
	ctx := context.Background()

	doneA := p.SetParam(ctx, "A")
	doneB := p.SetParam(ctx, "B")

	require.NoError(t, <-doneB)
	assert.Equal(t, []string{"from-B"}, names(p.Snapshot().Items))

	releaseA()
	assert.ErrorIs(t, <-doneA, ErrStale)

	v := p.Snapshot()
	assert.Equal(t, StateLoaded, v.State)
	assert.Equal(t, "B", v.Param)
	assert.Equal(t, []string{"from-B"}, names(v.Items))
	assert.Equal(t, uint64(1), p.StaleCount())
	assert.Equal(t, 1, metrics.stales)
	assert.Equal(t, 1, logs.FilterMessage("discarded stale response").Len())
	assert.Equal(t, 2, logs.FilterMessage("backend call completed").Len())
}

func TestPage_StaleFailureDoesNotOverwrite(t *testing.T) {
	f := newScriptedFetcher()
	f.fail["A"] = errors.New(errors.CodeUpstreamTransport, "timeout")
	f.answers["B"] = []screening.MolecularHit{hit("from-B", 1)}
	releaseA := f.hold("A")
	p := newHitsPage(t, f)

	doneA := p.Request(context.Background(), "A")
	require.NoError(t, p.Load(context.Background(), "B"))
	releaseA()

	assert.ErrorIs(t, <-doneA, ErrStale)
	assert.Equal(t, StateLoaded, p.Snapshot().State)
}

func TestPage_ManyOverlappingRequestsLastWins(t *testing.T) {
	f := newScriptedFetcher()
	var releases []func()
	params := []string{"p0", "p1", "p2", "p3", "p4"}
	for _, prm := range params {
		f.answers[prm] = []screening.MolecularHit{hit(prm, 1)}
		releases = append(releases, f.hold(prm))
	}
	p := newHitsPage(t, f)

	var dones []<-chan error
	for _, prm := range params {
		dones = append(dones, p.Request(context.Background(), prm))
	}
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
		time.Sleep(time.Millisecond)
	}
	for i, d := range dones {
		if i == len(dones)-1 {
			assert.NoError(t, <-d)
		} else {
			assert.ErrorIs(t, <-d, ErrStale)
		}
	}
	assert.Equal(t, []string{"p4"}, names(p.Snapshot().Items))
	assert.Equal(t, uint64(4), p.StaleCount())
}
