// Package audit provides the journal of committed business operations.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"kiosko/internal/core/id"
)

// Action represents the type of audited operation.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDeactivate Action = "deactivate"
	ActionDelete     Action = "delete"
	ActionPay        Action = "pay"
)

// Entity types written by the engines.
const (
	EntitySale     = "sale"
	EntityPurchase = "purchase"
	EntityPayment  = "payment"
	EntityLot      = "lot"
)

// Compression specifies the algorithm used for the stored payload.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Entry is a single journal record. Exactly one of Payload and Compressed is set when stored.
type Entry struct {
	ID         id.ID           `db:"id" json:"id"`
	EntityType string          `db:"entity_type" json:"entityType"`
	EntityID   id.ID           `db:"entity_id" json:"entityId"`
	Action     Action          `db:"action" json:"action"`
	UserID     string          `db:"user_id" json:"userId,omitempty"`
	Payload    json.RawMessage `db:"payload" json:"payload,omitempty"`
	Compressed []byte          `db:"payload_compressed" json:"-"`
	Algo       Compression     `db:"compression_algo" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// Repository stores journal entries. Append joins the caller's unit of work.
type Repository interface {
	Append(ctx context.Context, e Entry) error

	// History returns the newest entries of one entity first.
	History(ctx context.Context, entityType string, entityID id.ID, limit int) ([]Entry, error)
}

// Journal is what the engines write to.
type Journal interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action Action, payload any) error
}
