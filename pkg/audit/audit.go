// Package audit provides tenant-scoped audit event logging.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibondarenko1/hipaa-saas/pkg/logger"
)

// Logger writes audit events to the audit_events table.
type Logger struct {
	db  *pgxpool.Pool
	log *logger.Logger
}

// NewLogger creates a new audit logger.
func NewLogger(db *pgxpool.Pool, log *logger.Logger) *Logger {
	return &Logger{
		db:  db,
		log: log.WithComponent("audit"),
	}
}

// ActorType defines who performed the action.
type ActorType string

const (
	ActorTypeUser   ActorType = "user"
	ActorTypeSystem ActorType = "system"
)

// Status indicates the outcome of the action.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Entry represents one audit event.
type Entry struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	ActorType  ActorType `json:"actor_type"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id,omitempty"`
	Status     Status    `json:"status"`
	RequestID  string    `json:"request_id,omitempty"`

	// Meta carries action-specific context (e.g. run stats).
	Meta map[string]any `json:"meta,omitempty"`
}

// Predefined action strings for consistency.
const (
	ActionAssessmentCreate  = "assessment.create"
	ActionAssessmentSubmit  = "assessment.submit"
	ActionAssessmentReopen  = "assessment.reopen"
	ActionAnswerUpsert      = "answer.upsert"
	ActionEvidenceLink      = "evidence.link"
	ActionEngineRunStart    = "engine.run.start"
	ActionEngineRunComplete = "engine.run.complete"
	ActionEngineRunFail     = "engine.run.fail"
)

// Log writes an audit event to the database. A nil Logger is a no-op, which
// keeps tests free of a database dependency.
func (l *Logger) Log(ctx context.Context, entry Entry) error {
	if l == nil {
		return nil
	}
	metaJSON, err := json.Marshal(entry.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	query := `
		INSERT INTO audit_events (
			tenant_id, actor_type, actor_id, action,
			object_type, object_id, status, request_id, meta
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = l.db.Exec(ctx, query,
		entry.TenantID, entry.ActorType, entry.ActorID, entry.Action,
		entry.ObjectType, entry.ObjectID, entry.Status, entry.RequestID, metaJSON,
	)
	if err != nil {
		l.log.Error("failed to write audit event", "error", err, "action", entry.Action)
		return fmt.Errorf("failed to write audit event: %w", err)
	}

	return nil
}

// LogAsync writes an audit event asynchronously (fire and forget).
func (l *Logger) LogAsync(ctx context.Context, entry Entry) {
	if l == nil {
		return
	}
	if entry.RequestID == "" {
		entry.RequestID = logger.GetRequestID(ctx)
	}

	go func() {
		// The request context may already be cancelled by the time this runs
		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := l.Log(logCtx, entry); err != nil {
			l.log.Error("async audit write failed", "error", err, "action", entry.Action)
		}
	}()
}

// LogUserAction logs a user-initiated action.
func (l *Logger) LogUserAction(ctx context.Context, tenantID uuid.UUID, userID, action, objectType, objectID string, status Status) {
	l.LogAsync(ctx, Entry{
		TenantID:   tenantID,
		ActorType:  ActorTypeUser,
		ActorID:    userID,
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Status:     status,
	})
}

// LogSystemAction logs a system-initiated action with optional metadata.
func (l *Logger) LogSystemAction(ctx context.Context, tenantID uuid.UUID, action, objectType, objectID string, status Status, meta map[string]any) {
	l.LogAsync(ctx, Entry{
		TenantID:   tenantID,
		ActorType:  ActorTypeSystem,
		ActorID:    "system",
		Action:     action,
		ObjectType: objectType,
		ObjectID:   objectID,
		Status:     status,
		Meta:       meta,
	})
}

// Event is a stored audit event row.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	TenantID   uuid.UUID      `json:"tenant_id"`
	ActorType  ActorType      `json:"actor_type"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	ObjectType string         `json:"object_type"`
	ObjectID   string         `json:"object_id,omitempty"`
	Status     Status         `json:"status"`
	RequestID  string         `json:"request_id,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// QueryFilters contains filters for listing audit events.
type QueryFilters struct {
	TenantID  uuid.UUID
	Action    string
	ObjectID  string
	StartTime time.Time
	EndTime   time.Time
	Limit     int
	Offset    int
}

// Query retrieves audit events with filters, newest first.
func (l *Logger) Query(ctx context.Context, filters QueryFilters) ([]Event, error) {
	query := `
		SELECT id, timestamp, tenant_id, actor_type, actor_id,
		       action, object_type, object_id, status, request_id, meta
		FROM audit_events
		WHERE tenant_id = $1
	`
	args := []any{filters.TenantID}
	argIdx := 2

	if filters.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, filters.Action)
		argIdx++
	}

	if filters.ObjectID != "" {
		query += fmt.Sprintf(" AND object_id = $%d", argIdx)
		args = append(args, filters.ObjectID)
		argIdx++
	}

	if !filters.StartTime.IsZero() {
		query += fmt.Sprintf(" AND timestamp >= $%d", argIdx)
		args = append(args, filters.StartTime)
		argIdx++
	}

	if !filters.EndTime.IsZero() {
		query += fmt.Sprintf(" AND timestamp <= $%d", argIdx)
		args = append(args, filters.EndTime)
		argIdx++
	}

	query += " ORDER BY timestamp DESC"

	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filters.Limit)
	} else {
		query += " LIMIT 100"
	}

	if filters.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filters.Offset)
	}

	rows, err := l.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var results []Event
	for rows.Next() {
		var ev Event
		var meta []byte

		err := rows.Scan(
			&ev.ID, &ev.Timestamp, &ev.TenantID, &ev.ActorType, &ev.ActorID,
			&ev.Action, &ev.ObjectType, &ev.ObjectID, &ev.Status, &ev.RequestID, &meta,
		)
		if err != nil {
			l.log.Warn("failed to scan audit row", "error", err)
			continue
		}

		_ = json.Unmarshal(meta, &ev.Meta)
		results = append(results, ev)
	}

	return results, nil
}
