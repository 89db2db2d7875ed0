package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"skillswap/internal/database"
	"skillswap/internal/domain/connection"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRequestNotFound   = errors.New("connection request not found")
	ErrDuplicateRequest  = errors.New("duplicate connection request")
	ErrRequestNotPending = errors.New("connection request not pending")
)

type ConnectionRepository interface {
	// Create inserts a new PENDING request. A unique violation on the
	// live-pair index is reported as ErrDuplicateRequest.
	Create(ctx context.Context, req connection.Request) (connection.Request, error)
	GetByID(ctx context.Context, id uuid.UUID) (connection.Request, error)
	// ExistsActiveBetween checks both directions of the pair for a
	// PENDING or ACCEPTED request.
	ExistsActiveBetween(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListByReceiverAndStatus(ctx context.Context, receiverID uuid.UUID, status connection.Status) ([]connection.Request, error)
	ListBySenderAndStatus(ctx context.Context, senderID uuid.UUID, status connection.Status) ([]connection.Request, error)
	// Transition locks the request row, verifies it is still PENDING
	// and applies the new status. The loser of a concurrent transition
	// observes ErrRequestNotPending.
	Transition(ctx context.Context, id uuid.UUID, to connection.Status, respondedAt *time.Time) (connection.Request, error)
	CountByStatus(ctx context.Context, status connection.Status) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type PostgresConnectionRepository struct {
	db database.DB
}

func NewPostgresConnectionRepository(db database.DB) *PostgresConnectionRepository {
	return &PostgresConnectionRepository{db: db}
}

const requestColumns = `id, sender_id, receiver_id, message, status, created_at, responded_at`

func (r *PostgresConnectionRepository) Create(ctx context.Context, req connection.Request) (connection.Request, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO connection_requests (id, sender_id, receiver_id, message, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		req.ID, req.SenderID, req.ReceiverID, req.Message, connection.StatusPending,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return connection.Request{}, ErrDuplicateRequest
		}
		return connection.Request{}, err
	}

	return r.GetByID(ctx, req.ID)
}

func (r *PostgresConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (connection.Request, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM connection_requests WHERE id = $1`, id,
	)
	return scanRequest(row)
}

func (r *PostgresConnectionRepository) ExistsActiveBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM connection_requests
			WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
			  AND status IN ($3, $4)
		 )`,
		a, b, connection.StatusPending, connection.StatusAccepted,
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresConnectionRepository) ListByReceiverAndStatus(ctx context.Context, receiverID uuid.UUID, status connection.Status) ([]connection.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM connection_requests WHERE receiver_id = $1 AND status = $2 ORDER BY created_at ASC`,
		receiverID, status,
	)
}

func (r *PostgresConnectionRepository) ListBySenderAndStatus(ctx context.Context, senderID uuid.UUID, status connection.Status) ([]connection.Request, error) {
	return r.list(ctx,
		`SELECT `+requestColumns+` FROM connection_requests WHERE sender_id = $1 AND status = $2 ORDER BY created_at ASC`,
		senderID, status,
	)
}

func (r *PostgresConnectionRepository) list(ctx context.Context, query string, args ...any) ([]connection.Request, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]connection.Request, 0)
	for rows.Next() {
		var req connection.Request
		if err := rows.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Message, &req.Status, &req.CreatedAt, &req.RespondedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConnectionRepository) Transition(ctx context.Context, id uuid.UUID, to connection.Status, respondedAt *time.Time) (connection.Request, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return connection.Request{}, err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	row := tx.QueryRow(ctx,
		`SELECT `+requestColumns+` FROM connection_requests WHERE id = $1 FOR UPDATE`, id,
	)
	current, err := scanRequest(row)
	if err != nil {
		return connection.Request{}, err
	}
	if current.Status != connection.StatusPending {
		return connection.Request{}, ErrRequestNotPending
	}

	_, err = tx.Exec(ctx,
		`UPDATE connection_requests SET status = $1, responded_at = $2 WHERE id = $3`,
		to, respondedAt, id,
	)
	if err != nil {
		return connection.Request{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return connection.Request{}, err
	}

	current.Status = to
	current.RespondedAt = respondedAt
	return current, nil
}

func (r *PostgresConnectionRepository) CountByStatus(ctx context.Context, status connection.Status) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM connection_requests WHERE status = $1`, status)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresConnectionRepository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM connection_requests`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanRequest(row database.Row) (connection.Request, error) {
	var req connection.Request
	err := row.Scan(&req.ID, &req.SenderID, &req.ReceiverID, &req.Message, &req.Status, &req.CreatedAt, &req.RespondedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return connection.Request{}, ErrRequestNotFound
		}
		return connection.Request{}, err
	}
	return req, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
