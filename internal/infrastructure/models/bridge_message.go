package models

import (
	"time"

	"github.com/volatiletech/null/v8"
)

// BridgeMessage is the persistence row for a cross-chain coverage message.
// Rows are never deleted; terminal messages stay for audit.
type BridgeMessage struct {
	MessageID      string      `gorm:"type:varchar(66);primaryKey"`
	Status         string      `gorm:"type:varchar(20);not null;index"`
	SourceChainID  int64       `gorm:"not null;index"`
	DestChainID    int64       `gorm:"not null;index"`
	Holder         string      `gorm:"type:varchar(255);not null;index"`
	CoverageAmount string      `gorm:"type:decimal(36,18);not null"`
	TxHash         null.String `gorm:"type:varchar(255)"`
	FailureReason  null.String `gorm:"type:text"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (BridgeMessage) TableName() string {
	return "bridge_messages"
}
