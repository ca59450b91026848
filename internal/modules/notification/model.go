// README: Notification inbox entries.
package notification

import (
	"time"

	"campusnav/internal/types"
)

type Notification struct {
	ID      types.ID  `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Read    bool      `json:"read"`
}

// Welcome is the message new installs are greeted with.
var Welcome = struct{ Title, Message string }{
	Title:   "Welcome to UG Campus Navigator",
	Message: "Explore the University of Ghana campus with ease. Find locations, get directions, and discover campus events.",
}
