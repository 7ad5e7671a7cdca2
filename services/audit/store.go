package audit

import (
	"context"
	"errors"
)

var (
	ErrMissingUserID = errors.New("audit entry requires a user id")
	ErrMissingAction = errors.New("audit entry requires an action")
)

// Store is the append-only audit log. A returned id implies the entry is
// durable. There is deliberately no update or delete path.
type Store interface {
	Append(ctx context.Context, entry *Entry) (string, error)
	Find(ctx context.Context, filter Filter) ([]*Entry, error)
}

func validate(entry *Entry) error {
	if entry.UserID == "" {
		return ErrMissingUserID
	}
	if entry.Action == "" {
		return ErrMissingAction
	}
	return nil
}
