package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Journal struct {
	ID       ItemID
	Name     string
	Category string
	Impact   float64
}

func (j Journal) Validate() error {
	if strings.TrimSpace(string(j.ID)) == "" {
		return errors.New("journal id is required")
	}
	if strings.TrimSpace(j.Name) == "" {
		return fmt.Errorf("journal %s: name is required", j.ID)
	}
	return nil
}

// Match renders the journal as a search result.
func (j Journal) Match() Match {
	metadata := map[string]string{}
	if j.Category != "" {
		metadata["category"] = j.Category
	}
	if j.Impact > 0 {
		metadata["impact"] = strconv.FormatFloat(j.Impact, 'f', -1, 64)
	}
	if len(metadata) == 0 {
		metadata = nil
	}
	return Match{ID: j.ID, Label: j.Name, Metadata: metadata}
}
