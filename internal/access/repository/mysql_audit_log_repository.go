package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	accessDomain "github.com/allisson/ghostpass/internal/access/domain"
	"github.com/allisson/ghostpass/internal/database"
	apperrors "github.com/allisson/ghostpass/internal/errors"
)

// MySQLAuditLogRepository implements AuditLog persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLAuditLogRepository struct {
	db *sql.DB
}

// Create inserts a new AuditLog using BINARY(16) for UUIDs. Nil metadata is stored as NULL.
func (m *MySQLAuditLogRepository) Create(ctx context.Context, auditLog *accessDomain.AuditLog) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error

	if auditLog.Metadata != nil {
		metadataJSON, err = json.Marshal(auditLog.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal audit log metadata")
		}
	}

	id, err := auditLog.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log id")
	}

	requestID, err := auditLog.RequestID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log request_id")
	}

	actorID, err := auditLog.ActorID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log actor_id")
	}

	tokenID, err := auditLog.TokenID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal audit log token_id")
	}

	query := `INSERT INTO audit_logs (` + auditLogColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		requestID,
		actorID,
		auditLog.Action,
		tokenID,
		auditLog.Reason,
		metadataJSON,
		auditLog.Signature,
		auditLog.IsSigned,
		auditLog.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create audit log")
	}

	return nil
}

// List retrieves audit logs ordered by created_at descending with pagination and
// optional inclusive created_at bounds (nil means unbounded).
func (m *MySQLAuditLogRepository) List(
	ctx context.Context,
	offset, limit int,
	createdAtFrom, createdAtTo *time.Time,
) ([]*accessDomain.AuditLog, error) {
	querier := database.GetTx(ctx, m.db)

	var conditions []string
	var args []any

	if createdAtFrom != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, *createdAtFrom)
	}

	if createdAtTo != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, *createdAtTo)
	}

	query := `SELECT ` + auditLogColumns + ` FROM audit_logs`

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list audit logs")
	}
	defer func() {
		_ = rows.Close()
	}()

	auditLogs := make([]*accessDomain.AuditLog, 0)
	for rows.Next() {
		var auditLog accessDomain.AuditLog
		var idBinary, requestIDBinary, actorIDBinary, tokenIDBinary []byte
		var metadataJSON []byte

		err := rows.Scan(
			&idBinary,
			&requestIDBinary,
			&actorIDBinary,
			&auditLog.Action,
			&tokenIDBinary,
			&auditLog.Reason,
			&metadataJSON,
			&auditLog.Signature,
			&auditLog.IsSigned,
			&auditLog.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan audit log")
		}

		if err := auditLog.ID.UnmarshalBinary(idBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log id")
		}
		if err := auditLog.RequestID.UnmarshalBinary(requestIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log request_id")
		}
		if err := auditLog.ActorID.UnmarshalBinary(actorIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log actor_id")
		}
		if err := auditLog.TokenID.UnmarshalBinary(tokenIDBinary); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal audit log token_id")
		}

		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &auditLog.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal audit log metadata")
			}
		}

		auditLogs = append(auditLogs, &auditLog)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate audit logs")
	}

	return auditLogs, nil
}

// DeleteOlderThan removes audit logs created before olderThan. With dryRun it only counts them.
func (m *MySQLAuditLogRepository) DeleteOlderThan(
	ctx context.Context,
	olderThan time.Time,
	dryRun bool,
) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	if dryRun {
		var count int64
		err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_logs WHERE created_at < ?`, olderThan).
			Scan(&count)
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to count audit logs")
		}
		return count, nil
	}

	result, err := querier.ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete audit logs")
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get affected rows count")
	}

	return count, nil
}

// NewMySQLAuditLogRepository creates a new MySQL AuditLog repository.
func NewMySQLAuditLogRepository(db *sql.DB) *MySQLAuditLogRepository {
	return &MySQLAuditLogRepository{db: db}
}
