package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLedgerIssueIsMonotonic(t *testing.T) {
	t.Parallel()

	l := NewRequestLedger()
	first := l.Issue("nat", testStart, nil)
	second := l.Issue("natu", testStart, nil)

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.False(t, l.IsCurrent(first.Seq))
	assert.True(t, l.IsCurrent(second.Seq))
	assert.Equal(t, 2, l.InFlight())
	assert.Equal(t, uint64(2), l.latest)
}

func TestRequestLedgerSettle(t *testing.T) {
	t.Parallel()

	l := NewRequestLedger()
	cancelled := 0
	first := l.Issue("nat", testStart, func() { cancelled++ })
	second := l.Issue("natu", testStart, func() { cancelled++ })

	tracked, current := l.Settle(second.Seq)
	assert.True(t, tracked)
	assert.True(t, current)

	tracked, current = l.Settle(first.Seq)
	assert.True(t, tracked)
	assert.False(t, current)

	tracked, _ = l.Settle(first.Seq)
	assert.False(t, tracked)
	assert.Equal(t, 2, cancelled)
	assert.Equal(t, 0, l.InFlight())
}

func TestRequestLedgerCoalesceRetargets(t *testing.T) {
	t.Parallel()

	l := NewRequestLedger()
	first := l.Issue("nat", testStart, nil)
	l.Issue("natu", testStart, nil)

	req, ok := l.Coalesce("nat")
	require.True(t, ok)
	assert.Equal(t, first.Seq, req.Seq)
	assert.True(t, l.IsCurrent(first.Seq))

	_, ok = l.Coalesce("nature")
	assert.False(t, ok)
}

func TestRequestLedgerSupersedeAndAbandon(t *testing.T) {
	t.Parallel()

	l := NewRequestLedger()
	cancelled := 0
	req := l.Issue("nat", testStart, func() { cancelled++ })

	l.Supersede()
	assert.False(t, l.IsCurrent(req.Seq))
	assert.Equal(t, 1, l.InFlight())
	assert.Equal(t, 0, cancelled)

	assert.Equal(t, 1, l.AbandonAll())
	assert.Equal(t, 1, cancelled)
	assert.Equal(t, 0, l.InFlight())
	assert.Equal(t, 0, l.AbandonAll())

	next := l.Issue("nat", testStart, nil)
	assert.Equal(t, uint64(2), next.Seq)
}
