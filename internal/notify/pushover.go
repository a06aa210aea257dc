package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/gregdel/pushover"
)

// UserKeyLookup resolves the Pushover user key for an account. Users who
// have not linked a device resolve to an empty key and are skipped.
type UserKeyLookup interface {
	PushoverKeyForUser(ctx context.Context, userID uint64) (string, error)
}

// PushoverPresenter sends fired reminders as Pushover push notifications.
type PushoverPresenter struct {
	app  *pushover.Pushover
	keys UserKeyLookup
}

// NewPushoverPresenter builds a presenter from an application API token.
func NewPushoverPresenter(apiToken string, keys UserKeyLookup) *PushoverPresenter {
	return &PushoverPresenter{
		app:  pushover.New(apiToken),
		keys: keys,
	}
}

// Present implements Presenter. A user without a linked device is a no-op,
// not an error; a reminder must never fail just because push is unset.
func (p *PushoverPresenter) Present(ctx context.Context, r Reminder) error {
	key, err := p.keys.PushoverKeyForUser(ctx, r.UserID)
	if err != nil {
		return fmt.Errorf("lookup pushover key for user %d: %w", r.UserID, err)
	}
	if key == "" {
		log.Printf("pushover: user %d has no device linked, skipping %s", r.UserID, r.Name)
		return nil
	}

	msg := pushover.NewMessageWithTitle(
		fmt.Sprintf("Time to take %s (%s)", r.Name, r.Dosage),
		"Medication reminder",
	)
	msg.Timestamp = r.ScheduledAt.Unix()

	if _, err := p.app.SendMessage(msg, pushover.NewRecipient(key)); err != nil {
		return fmt.Errorf("send pushover message: %w", err)
	}
	return nil
}
