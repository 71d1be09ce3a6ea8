package checkout

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrOrderNotPlaced       = errors.New("order could not be placed, try again")
	ErrSubmissionInProgress = errors.New("a checkout submission is already in progress")
)

// ValidationError maps form field names to a message for that field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid checkout form: " + strings.Join(names, ", ")
}
