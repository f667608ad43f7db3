package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/phonebook-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const userColumns = `id, created_at, updated_at, first_name, last_name, email, password,
	subscription, avatar_url, verify, verification_token, token`

// PostgresUsers stores users in the "users" table.
type PostgresUsers struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func (s *PostgresUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *PostgresUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *PostgresUsers) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM users WHERE verification_token = $1`, token)
}

func (s *PostgresUsers) queryOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	var (
		u            models.User
		subscription string
		vtoken       sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&u.ID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&subscription,
		&u.AvatarURL,
		&u.Verify,
		&vtoken,
		&u.Token,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Subscription = models.Subscription(subscription)
	if vtoken.Valid {
		u.VerificationToken = &vtoken.String
	}
	return &u, nil
}

func (s *PostgresUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	u := *user
	u.ID = uuid.NewString()
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, u.ID, u.CreatedAt, u.UpdatedAt, u.FirstName, u.LastName, u.Email, u.Password,
		string(u.Subscription), u.AvatarURL, u.Verify, nullString(u.VerificationToken), u.Token)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (s *PostgresUsers) UpdateByID(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("updated_at", time.Now().UTC())
	if upd.FirstName != nil {
		add("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("last_name", *upd.LastName)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Subscription != nil {
		add("subscription", string(*upd.Subscription))
	}
	if upd.AvatarURL != nil {
		add("avatar_url", *upd.AvatarURL)
	}
	if upd.Verify != nil {
		add("verify", *upd.Verify)
	}
	if upd.ClearVerificationToken {
		add("verification_token", nil)
	} else if upd.VerificationToken != nil {
		add("verification_token", *upd.VerificationToken)
	}
	if upd.Token != nil {
		add("token", *upd.Token)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(sets, ", "), len(args))

	u, err := s.queryOne(ctx, query, args...)
	if err != nil && isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
