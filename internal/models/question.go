package models

import (
	"errors"
	"fmt"
	"strings"
)

// Kind discriminates the question variants. Rendering and validation must
// switch over every case; there is no implicit string fallback.
type Kind string

const (
	KindText         Kind = "text"
	KindSingleChoice Kind = "single-choice"
	KindMultiChoice  Kind = "multi-choice"
	KindCode         Kind = "code"
)

const DefaultCodeLanguage = "javascript"

var ErrInvalidQuestion = errors.New("invalid question")

type Question struct {
	ID             string   `json:"id"`
	Kind           Kind     `json:"kind"`
	Prompt         string   `json:"prompt"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`
	Language       string   `json:"language,omitempty"`
}

// IsChoice reports whether the kind carries options.
func (k Kind) IsChoice() bool {
	return k == KindSingleChoice || k == KindMultiChoice
}

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindSingleChoice, KindMultiChoice, KindCode:
		return true
	}
	return false
}

// Validate enforces the variant invariants: options and correct answers
// exist only on choice kinds, correct answers are a subset of options, and
// code questions carry a language tag.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("%w: blank prompt", ErrInvalidQuestion)
	}

	switch q.Kind {
	case KindText:
		if len(q.Options) > 0 || len(q.CorrectAnswers) > 0 || q.Language != "" {
			return fmt.Errorf("%w: text question must not carry options, correct answers or a language", ErrInvalidQuestion)
		}
	case KindCode:
		if len(q.Options) > 0 || len(q.CorrectAnswers) > 0 {
			return fmt.Errorf("%w: code question must not carry options or correct answers", ErrInvalidQuestion)
		}
		if q.Language == "" {
			return fmt.Errorf("%w: code question requires a language", ErrInvalidQuestion)
		}
	case KindSingleChoice, KindMultiChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("%w: choice question requires at least one option", ErrInvalidQuestion)
		}
		if q.Language != "" {
			return fmt.Errorf("%w: choice question must not carry a language", ErrInvalidQuestion)
		}
		if q.Kind == KindSingleChoice && len(q.CorrectAnswers) > 1 {
			return fmt.Errorf("%w: single-choice question allows at most one correct answer", ErrInvalidQuestion)
		}
		for _, answer := range q.CorrectAnswers {
			if !containsOption(q.Options, answer) {
				return fmt.Errorf("%w: correct answer %q is not an option", ErrInvalidQuestion, answer)
			}
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidQuestion, q.Kind)
	}
	return nil
}

// Clone returns an independent copy so callers never share option slices
// with a stored room.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = append([]string(nil), q.Options...)
	}
	if q.CorrectAnswers != nil {
		c.CorrectAnswers = append([]string(nil), q.CorrectAnswers...)
	}
	return c
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
