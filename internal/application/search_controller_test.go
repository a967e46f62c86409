package application

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/academix-cli/internal/domain"
	"github.com/bnema/academix-cli/internal/ports/mocks"
	"github.com/bnema/academix-cli/internal/testutil"
)

const testDebounce = 300 * time.Millisecond

func newTestController(t *testing.T) (*SearchController, *fakeEndpoint, *testutil.ManualClock) {
	t.Helper()

	endpoint := newFakeEndpoint()
	clock := testutil.NewManualClock(testStart)
	ctrl, err := NewSearchController(endpoint, clock, SearchOptions{Debounce: testDebounce})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	return ctrl, endpoint, clock
}

func typeAndSettle(ctrl *SearchController, clock *testutil.ManualClock, text string) {
	ctrl.OnQueryChange(text)
	clock.Advance(testDebounce)
}

func waitIdle(t *testing.T, ctrl *SearchController) {
	t.Helper()
	require.Eventually(t, func() bool { return ctrl.InFlight() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestSearchControllerLaterRequestWinsOverEarlierResponse(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	first := endpoint.next(t)
	assert.Equal(t, "nat", first.query)

	typeAndSettle(ctrl, clock, "natu")
	second := endpoint.next(t)
	assert.Equal(t, "natu", second.query)

	second.reply <- searchReply{matches: matches("A", "B")}
	require.Eventually(t, func() bool { return ctrl.State().AppliedSeq == 2 }, 2*time.Second, 5*time.Millisecond)

	first.reply <- searchReply{matches: matches("C")}
	waitIdle(t, ctrl)

	assert.Equal(t, []domain.ItemID{"A", "B"}, matchIDs(ctrl.VisibleResults()))
	assert.Equal(t, SearchReady, ctrl.State().Status)
	assert.Equal(t, "natu", ctrl.Query())
}

func TestSearchControllerFinalResultIsHighestSequence(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 5; seed++ {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			t.Parallel()

			ctrl, endpoint, clock := newTestController(t)
			const n = 6
			calls := make([]searchCall, 0, n)
			for i := 0; i < n; i++ {
				typeAndSettle(ctrl, clock, fmt.Sprintf("q%d", i))
				calls = append(calls, endpoint.next(t))
			}

			var mu sync.Mutex
			var applied []uint64
			ctrl.Subscribe(func(s SearchState) {
				if s.Status == SearchReady {
					mu.Lock()
					applied = append(applied, s.AppliedSeq)
					mu.Unlock()
				}
			})

			rng := rand.New(rand.NewSource(seed))
			for _, i := range rng.Perm(n) {
				calls[i].reply <- searchReply{matches: matches(calls[i].query)}
			}
			waitIdle(t, ctrl)
			require.Eventually(t, func() bool {
				mu.Lock()
				defer mu.Unlock()
				return len(applied) > 0
			}, 2*time.Second, 5*time.Millisecond)

			assert.Equal(t, []domain.ItemID{"q5"}, matchIDs(ctrl.VisibleResults()))
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, []uint64{n}, applied)
		})
	}
}

func TestSearchControllerDebounceRestartsOnEveryKeystroke(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	ctrl.OnQueryChange("n")
	clock.Advance(200 * time.Millisecond)
	ctrl.OnQueryChange("na")
	assert.Equal(t, "na", ctrl.Query())
	assert.Equal(t, SearchDebouncing, ctrl.State().Status)
	clock.Advance(200 * time.Millisecond)
	endpoint.requireNoCall(t)

	clock.Advance(100 * time.Millisecond)
	call := endpoint.next(t)
	assert.Equal(t, "na", call.query)
	assert.Equal(t, SearchLoading, ctrl.State().Status)
}

func TestSearchControllerCoalescesIdenticalInFlightQuery(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	call := endpoint.next(t)

	typeAndSettle(ctrl, clock, "nat ")
	endpoint.requireNoCall(t)
	assert.Equal(t, 1, ctrl.InFlight())

	call.reply <- searchReply{matches: matches("A")}
	waitIdle(t, ctrl)
	assert.Equal(t, []domain.ItemID{"A"}, matchIDs(ctrl.VisibleResults()))
}

func TestSearchControllerCoalesceRetargetsToEarlierRequest(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	first := endpoint.next(t)
	typeAndSettle(ctrl, clock, "natu")
	second := endpoint.next(t)
	typeAndSettle(ctrl, clock, "nat")
	endpoint.requireNoCall(t)

	second.reply <- searchReply{matches: matches("A", "B")}
	require.Eventually(t, func() bool { return ctrl.InFlight() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, ctrl.VisibleResults())

	first.reply <- searchReply{matches: matches("C")}
	waitIdle(t, ctrl)
	assert.Equal(t, []domain.ItemID{"C"}, matchIDs(ctrl.VisibleResults()))
}

func TestSearchControllerCachesStaleSuccess(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	first := endpoint.next(t)
	typeAndSettle(ctrl, clock, "natu")
	second := endpoint.next(t)

	first.reply <- searchReply{matches: matches("C")}
	second.reply <- searchReply{matches: matches("A", "B")}
	waitIdle(t, ctrl)

	typeAndSettle(ctrl, clock, "nat")
	endpoint.requireNoCall(t)

	state := ctrl.State()
	assert.True(t, state.FromCache)
	assert.Equal(t, SearchReady, state.Status)
	assert.Equal(t, []domain.ItemID{"C"}, matchIDs(state.Results))
}

func TestSearchControllerCacheExpires(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	endpoint.next(t).reply <- searchReply{matches: matches("A")}
	waitIdle(t, ctrl)

	clock.Advance(DefaultSearchCacheTTL)
	typeAndSettle(ctrl, clock, "nat")
	call := endpoint.next(t)
	assert.Equal(t, "nat", call.query)
}

func TestSearchControllerCacheHitMakesInFlightStale(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	endpoint.next(t).reply <- searchReply{matches: matches("A")}
	waitIdle(t, ctrl)

	typeAndSettle(ctrl, clock, "natu")
	pending := endpoint.next(t)
	typeAndSettle(ctrl, clock, "nat")
	assert.True(t, ctrl.State().FromCache)

	pending.reply <- searchReply{matches: matches("B")}
	waitIdle(t, ctrl)
	assert.Equal(t, []domain.ItemID{"A"}, matchIDs(ctrl.VisibleResults()))
}

func TestSearchControllerClearingInputResetsSynchronously(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	endpoint.next(t).reply <- searchReply{matches: matches("A")}
	waitIdle(t, ctrl)

	typeAndSettle(ctrl, clock, "natu")
	inFlight := endpoint.next(t)

	ctrl.OnQueryChange("   ")
	state := ctrl.State()
	assert.Empty(t, state.Results)
	assert.Equal(t, SearchIdle, state.Status)
	assert.Equal(t, 0, ctrl.InFlight())
	assert.Error(t, inFlight.ctx.Err())

	inFlight.reply <- searchReply{matches: matches("B")}
	clock.Advance(time.Second)
	endpoint.requireNoCall(t)
	assert.Empty(t, ctrl.VisibleResults())
}

func TestSearchControllerClearingCancelsPendingDebounce(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	ctrl.OnQueryChange("nat")
	ctrl.OnQueryChange("")
	clock.Advance(time.Second)
	endpoint.requireNoCall(t)
	assert.Equal(t, SearchIdle, ctrl.State().Status)
}

func TestSearchControllerCurrentFailureSurfacesError(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	endpoint.next(t).reply <- searchReply{err: errors.New("boom")}
	waitIdle(t, ctrl)

	state := ctrl.State()
	assert.Equal(t, SearchFailed, state.Status)
	assert.ErrorIs(t, state.Err, domain.ErrSearchFailed)
	assert.Empty(t, state.Results)
	endpoint.requireNoCall(t)

	typeAndSettle(ctrl, clock, "nat")
	retry := endpoint.next(t)
	assert.Equal(t, "nat", retry.query)
}

func TestSearchControllerStaleFailureIsDropped(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	first := endpoint.next(t)
	typeAndSettle(ctrl, clock, "natu")
	second := endpoint.next(t)

	first.reply <- searchReply{err: errors.New("timeout")}
	require.Eventually(t, func() bool { return ctrl.InFlight() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, SearchLoading, ctrl.State().Status)
	assert.NoError(t, ctrl.State().Err)

	second.reply <- searchReply{matches: matches("A")}
	waitIdle(t, ctrl)
	assert.Equal(t, SearchReady, ctrl.State().Status)
}

func TestSearchControllerCloseMakesLateResolutionsNoOps(t *testing.T) {
	t.Parallel()

	ctrl, endpoint, clock := newTestController(t)

	typeAndSettle(ctrl, clock, "nat")
	call := endpoint.next(t)
	revision := ctrl.State().Revision

	ctrl.Close()
	ctrl.Close()
	assert.Error(t, call.ctx.Err())

	call.reply <- searchReply{matches: matches("A")}
	ctrl.OnQueryChange("natu")
	clock.Advance(time.Second)
	endpoint.requireNoCall(t)

	assert.Equal(t, revision, ctrl.State().Revision)
	assert.Empty(t, ctrl.VisibleResults())
}

func TestSearchControllerWithMockEndpoint(t *testing.T) {
	t.Parallel()

	endpoint := mocks.NewMockSearchEndpoint(t)
	endpoint.EXPECT().Search(mock.Anything, "cell").Return(matches("3"), nil).Once()

	clock := testutil.NewManualClock(testStart)
	ctrl, err := NewSearchController(endpoint, clock, SearchOptions{Debounce: testDebounce})
	require.NoError(t, err)
	defer ctrl.Close()

	typeAndSettle(ctrl, clock, "cell")
	require.Eventually(t, func() bool { return ctrl.State().Status == SearchReady }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []domain.ItemID{"3"}, matchIDs(ctrl.VisibleResults()))
}

func TestNewSearchControllerRequiresEndpoint(t *testing.T) {
	t.Parallel()

	_, err := NewSearchController(nil, nil, SearchOptions{})
	require.Error(t, err)
}
