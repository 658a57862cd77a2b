package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	ErrTerminalMessage   = errors.New("bridge message is in a terminal state")
	ErrInvalidTransition = errors.New("invalid bridge message transition")
)

// BridgeMessageStatus is the lifecycle state of an outbound coverage message.
type BridgeMessageStatus string

const (
	BridgeMessagePending  BridgeMessageStatus = "pending"
	BridgeMessageSent     BridgeMessageStatus = "sent"
	BridgeMessageReceived BridgeMessageStatus = "received"
	BridgeMessageFailed   BridgeMessageStatus = "failed"
)

// IsTerminal reports whether no further transition is permitted.
func (s BridgeMessageStatus) IsTerminal() bool {
	return s == BridgeMessageReceived || s == BridgeMessageFailed
}

// BridgeMessage tracks one cross-chain coverage request.
// Terminal messages are retained for audit, never deleted.
type BridgeMessage struct {
	MessageID      string              `json:"messageId"`
	Status         BridgeMessageStatus `json:"status"`
	SourceChainID  int64               `json:"sourceChainId"`
	DestChainID    int64               `json:"destChainId"`
	Holder         string              `json:"holder"`
	CoverageAmount string              `json:"coverageAmount"`
	TxHash         null.String         `json:"txHash,omitempty"`
	FailureReason  null.String         `json:"failureReason,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

// Allowed transitions: pending -> sent -> received; failed from pending or sent.
var bridgeTransitions = map[BridgeMessageStatus][]BridgeMessageStatus{
	BridgeMessagePending: {BridgeMessageSent, BridgeMessageFailed},
	BridgeMessageSent:    {BridgeMessageReceived, BridgeMessageFailed},
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (m *BridgeMessage) CanTransitionTo(next BridgeMessageStatus) bool {
	for _, s := range bridgeTransitions[m.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// TransitionTo applies a lifecycle transition, rejecting moves out of
// terminal states and skipped steps. A failed message can never be
// overwritten by a late confirmation.
func (m *BridgeMessage) TransitionTo(next BridgeMessageStatus) error {
	if m.Status.IsTerminal() {
		return fmt.Errorf("message %s is %s: %w", m.MessageID, m.Status, ErrTerminalMessage)
	}
	if !m.CanTransitionTo(next) {
		return fmt.Errorf("message %s: %s -> %s: %w", m.MessageID, m.Status, next, ErrInvalidTransition)
	}
	m.Status = next
	m.UpdatedAt = time.Now()
	return nil
}
