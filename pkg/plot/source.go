package plot

import (
	"context"
	"time"
)

// PayloadSource supplies chart payloads, selected by pair
type PayloadSource interface {
	Pairs(ctx context.Context) ([]string, error)
	Payload(ctx context.Context, pair string) (Payload, error)
}

// updateTracker is implemented by sources that know when they last changed
type updateTracker interface {
	LastUpdate() time.Time
}

// updateNotifier is implemented by sources that push pair updates
type updateNotifier interface {
	Subscribe(fn func(pair string))
}
