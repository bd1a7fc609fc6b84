package models

import "time"

// Schedule is advisory metadata; nothing in the lifecycle enforces the date
// or start time. The duration feeds the answering countdown.
type Schedule struct {
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration"`
}

// Room is an assessment definition. It is created once by the authoring flow
// and immutable afterwards; the store hands out fresh snapshots on every read.
type Room struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Schedule        Schedule   `json:"schedule"`
	MaxParticipants int        `json:"max_participants"`
	IsLive          bool       `json:"is_live"`
	AllowGuests     bool       `json:"allow_guests"`
	Questions       []Question `json:"questions"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (r Room) Clone() Room {
	c := r
	c.Questions = make([]Question, len(r.Questions))
	for i, q := range r.Questions {
		c.Questions[i] = q.Clone()
	}
	return c
}

// QuestionByID returns the question with the given id, or false when the id
// does not belong to this room.
func (r *Room) QuestionByID(id string) (Question, bool) {
	for _, q := range r.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
