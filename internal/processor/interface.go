package processor

import (
	"context"

	"github.com/mauv0809/padel-ratings/internal/club"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetSession(ctx context.Context, sessionID int64) (*club.Session, error)
}
