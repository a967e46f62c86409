package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ItemID identifies a journal across search results and the watchlist.
type ItemID string

// UnmarshalJSON accepts both string and numeric ids. Snapshots written by the
// browser client stored journal ids as numbers.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode item id %s: %w", trimmed, err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("decode item id %s: %w", trimmed, err)
	}
	*id = ItemID(n.String())
	return nil
}

type SearchRequest struct {
	Seq      uint64
	Query    string
	IssuedAt time.Time
}

type Match struct {
	ID       ItemID            `json:"id"`
	Label    string            `json:"label"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Item converts a search match into a watchlist entry.
func (m Match) Item() WatchlistItem {
	return WatchlistItem{
		ID:       m.ID,
		Name:     m.Label,
		Metadata: cloneMetadata(m.Metadata),
	}
}

// CloneMatches returns a deep copy so callers cannot mutate a received result.
func CloneMatches(matches []Match) []Match {
	if matches == nil {
		return nil
	}

	out := make([]Match, len(matches))
	for i, m := range matches {
		out[i] = Match{ID: m.ID, Label: m.Label, Metadata: cloneMetadata(m.Metadata)}
	}
	return out
}

func cloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}

	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
