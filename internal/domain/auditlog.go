package domain

import (
	"context"
	"time"
)

const (
	AuditTypeAuth    = "auth"
	AuditTypeBooking = "booking"
	AuditTypePayment = "payment"
	AuditTypeAdmin   = "admin"
	AuditTypeError   = "error"
)

// AuditLog is an append-only record of a user or system action. Entries are
// never mutated and nothing references them, so writes are best-effort.
type AuditLog struct {
	ID        int
	UserID    *int
	Action    string
	Type      string
	IPAddress string
	UserAgent string
	Details   map[string]any
	CreatedAt time.Time
}

type AuditLogRepository interface {
	Insert(ctx context.Context, entry *AuditLog) error
	GetAll(ctx context.Context, pagination Pagination) ([]AuditLog, *Metadata, error)
}
