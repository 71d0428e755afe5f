package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is any backing store that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll pings every named store and returns the failures keyed by name.
func CheckAll(ctx context.Context, timeout time.Duration, stores map[string]Pinger) map[string]error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	failures := make(map[string]error)
	for name, store := range stores {
		if store == nil {
			continue
		}
		if err := store.Ping(ctx); err != nil {
			failures[name] = fmt.Errorf("%s: %w", name, err)
		}
	}
	return failures
}
