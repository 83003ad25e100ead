package shared

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditLog represents one admin action stored in audit_logs: dealer
// approvals, blocks and update-request decisions.
type AuditLog struct {
	Actor      string
	Action     string
	DealerCode string
	Meta       map[string]any
	At         time.Time
}

// AuditLogger writes records into audit_logs.
type AuditLogger struct {
	pool *pgxpool.Pool
}

// NewAuditLogger returns a new AuditLogger.
func NewAuditLogger(pool *pgxpool.Pool) *AuditLogger {
	return &AuditLogger{pool: pool}
}

// Record persists the log entry.
func (l *AuditLogger) Record(ctx context.Context, log AuditLog) error {
	if l == nil {
		return errors.New("audit logger not initialised")
	}
	if log.Action == "" || log.DealerCode == "" {
		return errors.New("audit log requires action and dealer code")
	}
	metaJSON, err := json.Marshal(log.Meta)
	if err != nil {
		return err
	}
	if log.At.IsZero() {
		log.At = time.Now()
	}
	_, err = l.pool.Exec(ctx, `INSERT INTO audit_logs (actor, action, dealer_code, meta, at)
VALUES ($1, $2, $3, $4, $5)`, log.Actor, log.Action, log.DealerCode, metaJSON, log.At)
	return err
}
