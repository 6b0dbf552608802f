package ui

import (
	"fmt"
	"slices"
	"sync"
)

// Scripted is a Prompter answering from a prepared list, in order.
//
// Each answer is a bool (Confirm), a string (Input, Password, Select)
// or a []string (MultiSelect). An answer of type error is returned as is.
type Scripted struct {
	mu      sync.Mutex
	answers []any

	// Asked records messages of prompts, in order.
	Asked []string
}

var _ Prompter = &Scripted{}

func NewScripted(answers ...any) *Scripted {
	return &Scripted{answers: answers}
}

// Rest returns answers not consumed yet.
func (s *Scripted) Rest() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.answers)
}

func (s *Scripted) next(message string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Asked = append(s.Asked, message)
	if len(s.answers) == 0 {
		return nil, fmt.Errorf("unexpected prompt: %s", message)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func answer[T any](s *Scripted, message string) (T, error) {
	a, err := s.next(message)
	if err != nil {
		return *new(T), err
	}
	v, ok := a.(T)
	if !ok {
		return *new(T), fmt.Errorf("prompt %q: answer %#v is %T", message, a, *new(T))
	}
	return v, nil
}

func (s *Scripted) Confirm(message string, _ bool) (bool, error) {
	return answer[bool](s, message)
}

func (s *Scripted) Input(message string, _ string, _ bool) (string, error) {
	return answer[string](s, message)
}

func (s *Scripted) Password(message string) (string, error) {
	return answer[string](s, message)
}

func (s *Scripted) Select(message string, options []string, _ string) (string, error) {
	v, err := answer[string](s, message)
	if err != nil {
		return "", err
	}
	if !slices.Contains(options, v) {
		return "", fmt.Errorf("prompt %q: %q is not in %v", message, v, options)
	}
	return v, nil
}

func (s *Scripted) MultiSelect(message string, options []string, atLeast int) ([]string, error) {
	v, err := answer[[]string](s, message)
	if err != nil {
		return nil, err
	}
	if len(v) < atLeast {
		return nil, fmt.Errorf("prompt %q: %d answers, needs %d", message, len(v), atLeast)
	}
	for _, a := range v {
		if !slices.Contains(options, a) {
			return nil, fmt.Errorf("prompt %q: %q is not in %v", message, a, options)
		}
	}
	return v, nil
}
