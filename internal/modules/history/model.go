// README: Search history entries persisted most-recent-first.
package history

import (
	"errors"
	"time"

	"campusnav/internal/modules/catalog"
	"campusnav/internal/types"
)

// ErrNotFound is returned when a search id is not in the history.
var ErrNotFound = errors.New("search not found")

// MaxItems caps the persisted history.
const MaxItems = 20

// DefaultFrequentLimit applies when FrequentLocations is called with limit <= 0.
const DefaultFrequentLimit = 5

type Item struct {
	ID               types.ID          `json:"id"`
	Query            string            `json:"query"`
	Timestamp        time.Time         `json:"timestamp"`
	LocationSelected *catalog.Location `json:"locationSelected,omitempty"`
}

// LocationCount is one row of the frequent-locations ranking.
type LocationCount struct {
	Location catalog.Location `json:"location"`
	Count    int              `json:"count"`
}
