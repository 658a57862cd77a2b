package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cover-chain.backend/internal/domain/entities"
	domainerrors "cover-chain.backend/internal/domain/errors"
	"cover-chain.backend/internal/infrastructure/models"
)

// BridgeMessageRepositoryImpl implements BridgeMessageRepository on GORM.
type BridgeMessageRepositoryImpl struct {
	db *gorm.DB
}

func NewBridgeMessageRepository(db *gorm.DB) *BridgeMessageRepositoryImpl {
	return &BridgeMessageRepositoryImpl{db: db}
}

func (r *BridgeMessageRepositoryImpl) Create(ctx context.Context, msg *entities.BridgeMessage) error {
	return r.db.WithContext(ctx).Create(r.toModel(msg)).Error
}

func (r *BridgeMessageRepositoryImpl) GetByMessageID(ctx context.Context, messageID string) (*entities.BridgeMessage, error) {
	var m models.BridgeMessage
	if err := r.db.WithContext(ctx).Where("message_id = ?", messageID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.NotFound("bridge message " + messageID + " not found")
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *BridgeMessageRepositoryImpl) Update(ctx context.Context, msg *entities.BridgeMessage) error {
	result := r.db.WithContext(ctx).Model(&models.BridgeMessage{}).
		Where("message_id = ?", msg.MessageID).
		Updates(map[string]interface{}{
			"status":         string(msg.Status),
			"tx_hash":        msg.TxHash,
			"failure_reason": msg.FailureReason,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.NotFound("bridge message " + msg.MessageID + " not found")
	}
	return nil
}

func (r *BridgeMessageRepositoryImpl) ListByStatus(ctx context.Context, status entities.BridgeMessageStatus, limit int) ([]*entities.BridgeMessage, error) {
	var ms []models.BridgeMessage
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("created_at DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *BridgeMessageRepositoryImpl) ListUnconfirmedBefore(ctx context.Context, cutoff time.Time, limit int) ([]*entities.BridgeMessage, error) {
	var ms []models.BridgeMessage
	if err := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]string{string(entities.BridgeMessagePending), string(entities.BridgeMessageSent)}, cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return r.toEntities(ms), nil
}

func (r *BridgeMessageRepositoryImpl) toModel(e *entities.BridgeMessage) *models.BridgeMessage {
	return &models.BridgeMessage{
		MessageID:      e.MessageID,
		Status:         string(e.Status),
		SourceChainID:  e.SourceChainID,
		DestChainID:    e.DestChainID,
		Holder:         e.Holder,
		CoverageAmount: e.CoverageAmount,
		TxHash:         e.TxHash,
		FailureReason:  e.FailureReason,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func (r *BridgeMessageRepositoryImpl) toEntity(m *models.BridgeMessage) *entities.BridgeMessage {
	return &entities.BridgeMessage{
		MessageID:      m.MessageID,
		Status:         entities.BridgeMessageStatus(m.Status),
		SourceChainID:  m.SourceChainID,
		DestChainID:    m.DestChainID,
		Holder:         m.Holder,
		CoverageAmount: m.CoverageAmount,
		TxHash:         m.TxHash,
		FailureReason:  m.FailureReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *BridgeMessageRepositoryImpl) toEntities(ms []models.BridgeMessage) []*entities.BridgeMessage {
	var out []*entities.BridgeMessage
	for _, m := range ms {
		model := m
		out = append(out, r.toEntity(&model))
	}
	return out
}
