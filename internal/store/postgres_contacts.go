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
)

const contactColumns = `id, created_at, updated_at, name, email, phone, favorite`

// PostgresContacts stores contacts in the "contacts" table, ordered by its serial seq column.
type PostgresContacts struct {
	db *sql.DB
}

func NewPostgresContacts(db *sql.DB) *PostgresContacts {
	return &PostgresContacts{db: db}
}

func (s *PostgresContacts) List(ctx context.Context, filter models.ContactFilter) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts`
	args := []any{}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		query += fmt.Sprintf(" WHERE favorite = $%d", len(args))
	}
	query += " ORDER BY seq"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	args = append(args, filter.Skip())
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contacts := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

func (s *PostgresContacts) FindByID(ctx context.Context, id string) (*models.Contact, error) {
	return s.queryOne(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
}

func (s *PostgresContacts) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	c := *contact
	c.ID = uuid.NewString()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.ID, c.CreatedAt, c.UpdatedAt, c.Name, c.Email, c.Phone, c.Favorite)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresContacts) UpdateByID(ctx context.Context, id string, upd models.ContactUpdate) (*models.Contact, error) {
	sets := []string{}
	args := []any{}
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	add("updated_at", time.Now().UTC())
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.Favorite != nil {
		add("favorite", *upd.Favorite)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE contacts SET %s WHERE id = $%d RETURNING `+contactColumns,
		strings.Join(sets, ", "), len(args))
	return s.queryOne(ctx, query, args...)
}

func (s *PostgresContacts) DeleteByID(ctx context.Context, id string) (*models.Contact, error) {
	return s.queryOne(ctx, `DELETE FROM contacts WHERE id = $1 RETURNING `+contactColumns, id)
}

func (s *PostgresContacts) queryOne(ctx context.Context, query string, args ...any) (*models.Contact, error) {
	c, err := scanContact(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	var c models.Contact
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Name, &c.Email, &c.Phone, &c.Favorite); err != nil {
		return nil, err
	}
	return &c, nil
}
