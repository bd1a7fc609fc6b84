package models

// Answer is one response to one question. Values holds a single element for
// text, single-choice and code questions, and one element per selected
// option for multi-choice.
type Answer struct {
	QuestionID string   `json:"question_id"`
	Values     []string `json:"values"`
}

// AnswerSet maps question id to the latest recorded answer, at most one
// entry per question.
type AnswerSet map[string]Answer

func (s AnswerSet) Clone() AnswerSet {
	c := make(AnswerSet, len(s))
	for id, a := range s {
		a.Values = append([]string(nil), a.Values...)
		c[id] = a
	}
	return c
}

// Complete reports whether every question in the room has an answer.
func (s AnswerSet) Complete(r *Room) bool {
	for _, q := range r.Questions {
		if _, ok := s[q.ID]; !ok {
			return false
		}
	}
	return true
}
