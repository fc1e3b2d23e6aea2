package reports

import "strings"

// Error is a single coded failure observed during a report run.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorSet accumulates errors in the order they were observed. Validation,
// fetch and conversion steps append to it, never overwrite, so a caller sees
// every problem at once.
type ErrorSet struct {
	errs []Error
}

func NewErrorSet() *ErrorSet {
	return &ErrorSet{}
}

// Add appends a coded error.
func (s *ErrorSet) Add(code, message string) {
	s.errs = append(s.errs, Error{Code: code, Message: message})
}

// Merge appends every error from other, preserving order. Errors with a
// duplicate code are kept when their messages differ; exact duplicates are
// dropped.
func (s *ErrorSet) Merge(other *ErrorSet) {
	if other == nil {
		return
	}
	for _, e := range other.errs {
		if !s.contains(e) {
			s.errs = append(s.errs, e)
		}
	}
}

func (s *ErrorSet) contains(e Error) bool {
	for _, have := range s.errs {
		if have == e {
			return true
		}
	}
	return false
}

// HasErrors reports whether any error has been accumulated.
func (s *ErrorSet) HasErrors() bool {
	return s != nil && len(s.errs) > 0
}

// Errors returns a copy of the accumulated errors in order.
func (s *ErrorSet) Errors() []Error {
	out := make([]Error, len(s.errs))
	copy(out, s.errs)
	return out
}

// Codes returns the accumulated error codes in order.
func (s *ErrorSet) Codes() []string {
	codes := make([]string, 0, len(s.errs))
	for _, e := range s.errs {
		codes = append(codes, e.Code)
	}
	return codes
}

func (s *ErrorSet) String() string {
	msgs := make([]string, 0, len(s.errs))
	for _, e := range s.errs {
		msgs = append(msgs, e.Code+": "+e.Message)
	}
	return strings.Join(msgs, "; ")
}
