package models

import "time"

// Participant is one joiner's identity for one room. At most one record is
// kept per room; a later join overwrites the earlier one.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}
