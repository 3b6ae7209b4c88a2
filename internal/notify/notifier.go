package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type Notifier interface {
	NotifyOwner(ctx context.Context, n Notification) error
}

// Multi fans a notification out to every notifier and joins their errors.
type Multi []Notifier

func (m Multi) NotifyOwner(ctx context.Context, n Notification) error {
	var errs []error
	for _, nt := range m {
		if err := nt.NotifyOwner(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Log writes the owner summary to the process log. It is the fallback when
// no delivery channel is configured.
type Log struct{}

func (Log) NotifyOwner(_ context.Context, n Notification) error {
	log.Printf("[Notify] %s\n%s", OwnerTitle(n), OwnerContent(n))
	return nil
}

// retry executes a function with exponential backoff
func retry(ctx context.Context, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}

		log.Printf("⚠️ Notify error: %v. Retrying in %v...", err, sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
