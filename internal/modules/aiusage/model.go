package aiusage

import "errors"

// ErrInsufficientTokens is returned when the allowance for the current month is spent.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of assisted searches allowed per month.
const DefaultTokens = 100

// usage is the persisted counter. Month is "2006-01" formatted.
type usage struct {
	Month     string `json:"month"`
	Remaining int    `json:"remaining"`
}
