package lib

import "fmt"

// WrapError wraps error with a higher level error, keeping both matchable with errors.Is
func WrapError(outer error, inner error) error {
	return fmt.Errorf("%w: %w", outer, inner)
}
