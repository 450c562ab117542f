package repository

import (
	"context"

	"github.com/cinemaster/cinemaster-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresAuditLogRepository struct {
	db *pgxpool.Pool
}

func NewPostgresAuditLogRepository(db *pgxpool.Pool) *PostgresAuditLogRepository {
	return &PostgresAuditLogRepository{
		db: db,
	}
}

func (p *PostgresAuditLogRepository) Insert(ctx context.Context, entry *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_id, action, type, ip_address, user_agent, details)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return p.db.QueryRow(
		ctx,
		query,
		entry.UserID,
		entry.Action,
		entry.Type,
		entry.IPAddress,
		entry.UserAgent,
		entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (p *PostgresAuditLogRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]domain.AuditLog, *domain.Metadata, error) {

	query := `
		SELECT COUNT(*) OVER(), id, user_id, action, type, ip_address, user_agent, details, created_at
		FROM audit_logs
		WHERE ($1 = '' OR action ILIKE '%' || $1 || '%' OR type = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, pagination.Term, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditLog, 0)
	totalRecords := 0

	for rows.Next() {
		var entry domain.AuditLog

		err = rows.Scan(
			&totalRecords,
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Type,
			&entry.IPAddress,
			&entry.UserAgent,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return entries, metadata, nil
}
