package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/strata/internal/db"
	"github.com/alexanderramin/strata/internal/domain"
	"github.com/google/uuid"
)

// SQLiteEventOutbox stores domain events in the same transaction as the
// state change that produced them.
type SQLiteEventOutbox struct {
	db db.DBTX
}

func NewSQLiteEventOutbox(db db.DBTX) *SQLiteEventOutbox {
	return &SQLiteEventOutbox{db: db}
}

func (o *SQLiteEventOutbox) Append(ctx context.Context, events ...domain.Event) error {
	query := `INSERT INTO domain_events (id, name, aggregate_id, payload, occurred_at) VALUES (?, ?, ?, ?, ?)`
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding %s event: %w", ev.EventName(), err)
		}
		_, err = o.db.ExecContext(ctx, query,
			uuid.New().String(),
			ev.EventName(),
			ev.AggregateID(),
			string(payload),
			formatTime(ev.OccurredAt()),
		)
		if err != nil {
			return fmt.Errorf("appending %s event: %w", ev.EventName(), err)
		}
	}
	return nil
}

func (o *SQLiteEventOutbox) ListPending(ctx context.Context, limit int) ([]OutboxEvent, error) {
	query := `SELECT id, name, aggregate_id, payload, occurred_at, published_at FROM domain_events
		WHERE published_at IS NULL ORDER BY occurred_at, rowid LIMIT ?`
	rows, err := o.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing pending events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		var payload, occurredStr string
		var publishedStr sql.NullString
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.AggregateID, &payload, &occurredStr, &publishedStr); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		ev.Payload = []byte(payload)
		if ev.OccurredAt, err = parseTime(occurredStr); err != nil {
			return nil, fmt.Errorf("parsing occurred_at: %w", err)
		}
		ev.PublishedAt = parseNullableTime(publishedStr)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}
	return out, nil
}

func (o *SQLiteEventOutbox) MarkPublished(ctx context.Context, ids []string, at time.Time) error {
	query := `UPDATE domain_events SET published_at = ? WHERE id = ? AND published_at IS NULL`
	ts := formatTime(at)
	for _, id := range ids {
		if _, err := o.db.ExecContext(ctx, query, ts, id); err != nil {
			return fmt.Errorf("marking event %s published: %w", id, err)
		}
	}
	return nil
}
