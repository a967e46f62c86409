package application

import (
	"context"
	"time"

	"github.com/bnema/academix-cli/internal/domain"
)

type ledgerEntry struct {
	request domain.SearchRequest
	cancel  context.CancelFunc
}

// RequestLedger tracks in-flight search requests and which one is current.
// It is not synchronized; the owning controller serializes access.
type RequestLedger struct {
	latest   uint64
	current  uint64
	inFlight map[uint64]ledgerEntry
}

func NewRequestLedger() *RequestLedger {
	return &RequestLedger{inFlight: map[uint64]ledgerEntry{}}
}

// Issue allocates the next sequence number and makes it current.
func (l *RequestLedger) Issue(query string, issuedAt time.Time, cancel context.CancelFunc) domain.SearchRequest {
	l.latest++
	req := domain.SearchRequest{Seq: l.latest, Query: query, IssuedAt: issuedAt}
	l.inFlight[req.Seq] = ledgerEntry{request: req, cancel: cancel}
	l.current = req.Seq
	return req
}

// Coalesce retargets to an in-flight request for the same text, if any.
func (l *RequestLedger) Coalesce(query string) (domain.SearchRequest, bool) {
	var found domain.SearchRequest
	ok := false
	for _, entry := range l.inFlight {
		if entry.request.Query != query {
			continue
		}
		if !ok || entry.request.Seq > found.Seq {
			found = entry.request
			ok = true
		}
	}
	if ok {
		l.current = found.Seq
	}
	return found, ok
}

func (l *RequestLedger) IsCurrent(seq uint64) bool {
	return seq != 0 && seq == l.current
}

// Settle forgets a finished request. It reports whether the request was
// tracked and whether it was the current one.
func (l *RequestLedger) Settle(seq uint64) (tracked bool, current bool) {
	entry, ok := l.inFlight[seq]
	if !ok {
		return false, false
	}
	delete(l.inFlight, seq)
	if entry.cancel != nil {
		entry.cancel()
	}

	current = seq == l.current
	if current {
		l.current = 0
	}
	return true, current
}

// Supersede makes every in-flight request stale without cancelling it, so
// late successes can still populate the cache.
func (l *RequestLedger) Supersede() {
	l.current = 0
}

// AbandonAll cancels and forgets every in-flight request.
func (l *RequestLedger) AbandonAll() int {
	n := len(l.inFlight)
	for seq, entry := range l.inFlight {
		if entry.cancel != nil {
			entry.cancel()
		}
		delete(l.inFlight, seq)
	}
	l.current = 0
	return n
}

func (l *RequestLedger) InFlight() int {
	return len(l.inFlight)
}
