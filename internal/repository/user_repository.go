package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"skillswap/internal/database"
	"skillswap/internal/domain/user"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrUserNotFound = errors.New("user not found")

// SearchFilter narrows profile discovery. An empty Search matches
// everyone; a nil Availability applies no availability filter.
type SearchFilter struct {
	Search       string
	Availability *user.Availability
	Limit        int
	Offset       int
}

type UserRepository interface {
	Create(ctx context.Context, u user.User) error
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, u user.User) error
	SetEmailVerified(ctx context.Context, id uuid.UUID) error

	CountActiveVerified(ctx context.Context) (int64, error)
	FindPublicProfiles(ctx context.Context, limit, offset int) ([]user.User, int64, error)
	SearchProfiles(ctx context.Context, f SearchFilter) ([]user.User, int64, error)
}

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, password_hash, bio, location, profile_photo,
	is_profile_public, active, email_verified, availability,
	average_rating, total_reviews, completed_swaps, created_at, updated_at`

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, bio, location, profile_photo,
			is_profile_public, active, email_verified, availability)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Bio, u.Location, u.ProfilePhoto,
		u.IsProfilePublic, u.Active, u.EmailVerified, u.Availability,
	)
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`,
		strings.TrimSpace(email),
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))`,
		strings.TrimSpace(email),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u user.User) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users
		 SET first_name = $1, last_name = $2, bio = $3, location = $4, profile_photo = $5,
		     is_profile_public = $6, availability = $7, updated_at = now()
		 WHERE id = $8`,
		u.FirstName, u.LastName, u.Bio, u.Location, u.ProfilePhoto,
		u.IsProfilePublic, u.Availability, u.ID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) SetEmailVerified(ctx context.Context, id uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE users SET email_verified = TRUE, updated_at = now() WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) CountActiveVerified(ctx context.Context) (int64, error) {
	var n int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE active AND email_verified`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

const discoverableWhere = `is_profile_public AND active AND email_verified`

func (r *PostgresUserRepository) FindPublicProfiles(ctx context.Context, limit, offset int) ([]user.User, int64, error) {
	var total int64
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE `+discoverableWhere)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE `+discoverableWhere+`
		 ORDER BY average_rating DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// SearchProfiles matches the search term case-insensitively against
// first name, last name or any linked skill name. DISTINCT keeps a user
// to a single row even when several of their skills match.
func (r *PostgresUserRepository) SearchProfiles(ctx context.Context, f SearchFilter) ([]user.User, int64, error) {
	search := strings.TrimSpace(f.Search)
	var availability any
	if f.Availability != nil {
		availability = string(*f.Availability)
	}

	var total int64
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT u.id)
		 FROM users u
		 LEFT JOIN user_skills us ON us.user_id = u.id
		 LEFT JOIN skills s ON s.id = us.skill_id
		 WHERE u.`+discoverableJoinWhere+`
		   AND ($1 = '' OR u.first_name ILIKE '%' || $1 || '%'
			OR u.last_name ILIKE '%' || $1 || '%'
			OR s.name ILIKE '%' || $1 || '%')
		   AND ($2::text IS NULL OR u.availability = $2)`,
		search, availability,
	)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.bio, u.location, u.profile_photo,
			u.is_profile_public, u.active, u.email_verified, u.availability,
			u.average_rating, u.total_reviews, u.completed_swaps, u.created_at, u.updated_at
		 FROM users u
		 LEFT JOIN user_skills us ON us.user_id = u.id
		 LEFT JOIN skills s ON s.id = us.skill_id
		 WHERE u.`+discoverableJoinWhere+`
		   AND ($1 = '' OR u.first_name ILIKE '%' || $1 || '%'
			OR u.last_name ILIKE '%' || $1 || '%'
			OR s.name ILIKE '%' || $1 || '%')
		   AND ($2::text IS NULL OR u.availability = $2)
		 ORDER BY u.average_rating DESC
		 LIMIT $3 OFFSET $4`,
		search, availability, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

const discoverableJoinWhere = `is_profile_public AND u.active AND u.email_verified`

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Bio, &u.Location, &u.ProfilePhoto,
		&u.IsProfilePublic, &u.Active, &u.EmailVerified, &u.Availability,
		&u.AverageRating, &u.TotalReviews, &u.CompletedSwaps, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, ErrUserNotFound
		}
		return user.User{}, err
	}
	return u, nil
}

func collectUsers(rows database.Rows) ([]user.User, error) {
	out := make([]user.User, 0)
	for rows.Next() {
		var u user.User
		if err := rows.Scan(
			&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Bio, &u.Location, &u.ProfilePhoto,
			&u.IsProfilePublic, &u.Active, &u.EmailVerified, &u.Availability,
			&u.AverageRating, &u.TotalReviews, &u.CompletedSwaps, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
