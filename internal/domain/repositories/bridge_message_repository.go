package repositories

import (
	"context"
	"time"

	"cover-chain.backend/internal/domain/entities"
)

// BridgeMessageRepository persists the lifecycle of cross-chain coverage
// messages. Rows are append-and-update only; terminal messages are kept
// for audit.
type BridgeMessageRepository interface {
	Create(ctx context.Context, msg *entities.BridgeMessage) error
	GetByMessageID(ctx context.Context, messageID string) (*entities.BridgeMessage, error)
	Update(ctx context.Context, msg *entities.BridgeMessage) error
	ListByStatus(ctx context.Context, status entities.BridgeMessageStatus, limit int) ([]*entities.BridgeMessage, error)
	// ListUnconfirmedBefore returns non-terminal messages last updated
	// before the cutoff, used to enforce the confirmation window.
	ListUnconfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entities.BridgeMessage, error)
}
