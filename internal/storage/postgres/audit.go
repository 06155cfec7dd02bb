package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/rryowa/portfolio-backend/internal/models"
	"github.com/rryowa/portfolio-backend/internal/storage"
)

type AuditRepository struct {
	db storage.DBTX
}

func NewAuditRepository(db storage.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertAuditEntry appends one entry. Entries are never updated or deleted by
// the application.
func (r *AuditRepository) InsertAuditEntry(ctx context.Context, entry models.AuditEntry) error {
	details, err := json.Marshal(entry.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `INSERT INTO audit_logs (event_type, severity, user_id, username, resource_type, resource_id, action, details, ip_address, user_agent, success, error_message, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err = r.db.ExecContext(ctx, query,
		string(entry.EventType),
		string(entry.Severity),
		nullString(entry.ActorID),
		nullString(entry.ActorName),
		nullString(entry.ResourceType),
		nullString(entry.ResourceID),
		entry.Action,
		details,
		entry.ClientIP,
		entry.UserAgent,
		entry.Success,
		nullString(entry.ErrorMessage),
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListAuditEntries(ctx context.Context, filter models.AuditFilter) ([]models.AuditEntry, int, error) {
	where := ""
	args := []interface{}{}
	appendCond := func(cond, value string) {
		args = append(args, value)
		marker := "$" + strconv.Itoa(len(args))
		if where == "" {
			where = " WHERE " + cond + " = " + marker
		} else {
			where += " AND " + cond + " = " + marker
		}
	}

	if filter.EventType != "" {
		appendCond("event_type", string(filter.EventType))
	}
	if filter.Severity != "" {
		appendCond("severity", string(filter.Severity))
	}
	if filter.Username != "" {
		appendCond("username", filter.Username)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	query := `SELECT id, event_type, severity, user_id, username, resource_type, resource_id, action, details, ip_address, user_agent, success, error_message, timestamp FROM audit_logs` +
		where + fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var (
			entry                              models.AuditEntry
			actorID, actorName                 sql.NullString
			resourceType, resourceID, errorMsg sql.NullString
			details                            []byte
		)
		err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.Severity,
			&actorID,
			&actorName,
			&resourceType,
			&resourceID,
			&entry.Action,
			&details,
			&entry.ClientIP,
			&entry.UserAgent,
			&entry.Success,
			&errorMsg,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.ActorID = actorID.String
		entry.ActorName = actorName.String
		entry.ResourceType = resourceType.String
		entry.ResourceID = resourceID.String
		entry.ErrorMessage = errorMsg.String
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, 0, fmt.Errorf("failed to decode audit details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
