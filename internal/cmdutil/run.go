package cmdutil

import "context"

// Stream sends items on send in order and closes it. It returns the number
// of items sent and the context error if the context ended first.
func Stream[T any](ctx context.Context, items []T, send chan<- T) (int, error) {
	defer close(send)
	for i, it := range items {
		select {
		case <-ctx.Done():
			return i, ctx.Err()
		case send <- it:
		}
	}
	return len(items), nil
}
