package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bnema/academix-cli/internal/domain"
)

var testStart = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type searchReply struct {
	matches []domain.Match
	err     error
}

type searchCall struct {
	ctx   context.Context
	query string
	reply chan searchReply
}

// fakeEndpoint hands every request to the test, which answers it whenever
// it wants through the call's reply channel.
type fakeEndpoint struct {
	calls chan searchCall
}

func newFakeEndpoint() *fakeEndpoint {
	return &fakeEndpoint{calls: make(chan searchCall, 32)}
}

func (f *fakeEndpoint) Search(ctx context.Context, query string) ([]domain.Match, error) {
	call := searchCall{ctx: ctx, query: query, reply: make(chan searchReply, 1)}
	f.calls <- call

	select {
	case r := <-call.reply:
		return r.matches, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeEndpoint) next(t *testing.T) searchCall {
	t.Helper()

	select {
	case call := <-f.calls:
		return call
	case <-time.After(2 * time.Second):
		require.FailNow(t, "expected a search request")
		return searchCall{}
	}
}

func (f *fakeEndpoint) requireNoCall(t *testing.T) {
	t.Helper()

	select {
	case call := <-f.calls:
		require.FailNow(t, "unexpected search request", "query %q", call.query)
	case <-time.After(50 * time.Millisecond):
	}
}

func matches(ids ...string) []domain.Match {
	out := make([]domain.Match, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Match{ID: domain.ItemID(id), Label: "Journal " + id})
	}
	return out
}

func matchIDs(ms []domain.Match) []domain.ItemID {
	out := make([]domain.ItemID, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}
