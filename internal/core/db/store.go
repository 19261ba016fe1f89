package db

import (
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/promolang/promolang/internal/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Promotion is a stored promotion definition. Source is the raw DSL text;
// Checksum is the SHA256 hex of Source and doubles as a cache key component.
// Active and the validity window live here rather than in the DSL so that
// operators can toggle a promotion without editing its source.
type Promotion struct {
	ID        types.PromotionID
	Name      string
	Source    string
	Checksum  string
	Active    bool
	StartDate *time.Time
	EndDate   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// promotionRow is the sqlx scan target. Timestamps are RFC3339 strings so
// the same row shape works for both SQLite and PostgreSQL TEXT columns.
type promotionRow struct {
	ID        string         `db:"promotion_id"`
	Name      string         `db:"name"`
	Source    string         `db:"source"`
	Checksum  string         `db:"checksum"`
	Active    bool           `db:"active"`
	StartDate sql.NullString `db:"start_date"`
	EndDate   sql.NullString `db:"end_date"`
	CreatedAt string         `db:"created_at"`
	UpdatedAt string         `db:"updated_at"`
}

// Store persists promotion definitions and API keys through named queries.
type Store struct {
	q *Queries
}

// NewStore wraps a loaded query set.
func NewStore(q *Queries) *Store {
	return &Store{q: q}
}

// Checksum returns the SHA256 hex digest of DSL source.
func Checksum(source string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(source)))
}

// CreatePromotion stores a new promotion and returns it with a fresh ID.
// Source size is capped; oversized definitions are rejected before they
// reach the database.
func (s *Store) CreatePromotion(name, source string, active bool, start, end *time.Time) (*Promotion, error) {
	if len(source) > types.MaxSourceSize {
		return nil, types.ErrSourceTooLarge
	}

	now := time.Now().UTC()
	p := &Promotion{
		ID:        types.NewPromotionID(),
		Name:      name,
		Source:    source,
		Checksum:  Checksum(source),
		Active:    active,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.q.Exec("create-promotion",
		string(p.ID), p.Name, p.Source, p.Checksum, p.Active,
		nullTime(p.StartDate), nullTime(p.EndDate),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return p, nil
}

// GetPromotion loads a promotion by ID.
func (s *Store) GetPromotion(id types.PromotionID) (*Promotion, error) {
	var row promotionRow
	err := s.q.Get("get-promotion", &row, string(id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	return row.toPromotion()
}

// ListPromotions returns all stored promotions ordered by ID. UUIDv7 IDs
// sort by creation time, so this is creation order.
func (s *Store) ListPromotions() ([]*Promotion, error) {
	var rows []promotionRow
	if err := s.q.Select("list-promotions", &rows); err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}

	promotions := make([]*Promotion, 0, len(rows))
	for _, row := range rows {
		p, err := row.toPromotion()
		if err != nil {
			return nil, err
		}
		promotions = append(promotions, p)
	}
	return promotions, nil
}

// UpdatePromotion replaces the stored definition's mutable fields.
func (s *Store) UpdatePromotion(p *Promotion) error {
	if len(p.Source) > types.MaxSourceSize {
		return types.ErrSourceTooLarge
	}

	p.Checksum = Checksum(p.Source)
	p.UpdatedAt = time.Now().UTC()

	result, err := s.q.Exec("update-promotion",
		p.Name, p.Source, p.Checksum, p.Active,
		nullTime(p.StartDate), nullTime(p.EndDate),
		formatTime(p.UpdatedAt), string(p.ID),
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePromotion removes a promotion by ID.
func (s *Store) DeletePromotion(id types.PromotionID) error {
	result, err := s.q.Exec("delete-promotion", string(id))
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateAPIKey records an issued API key by its HMAC hash. The plaintext
// key is never stored.
func (s *Store) CreateAPIKey(name string, keyHash []byte) (types.APIKeyID, error) {
	id := types.NewAPIKeyID()
	_, err := s.q.Exec("create-api-key", string(id), name, keyHash, formatTime(time.Now().UTC()))
	if err != nil {
		return "", fmt.Errorf("create api key: %w", err)
	}
	return id, nil
}

// RevokeAPIKey marks a key as revoked. Revocation is permanent.
func (s *Store) RevokeAPIKey(id types.APIKeyID) error {
	result, err := s.q.Exec("revoke-api-key", formatTime(time.Now().UTC()), string(id))
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r promotionRow) toPromotion() (*Promotion, error) {
	createdAt, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("promotion %s: %w", r.ID, err)
	}
	updatedAt, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("promotion %s: %w", r.ID, err)
	}

	p := &Promotion{
		ID:        types.PromotionID(r.ID),
		Name:      r.Name,
		Source:    r.Source,
		Checksum:  r.Checksum,
		Active:    r.Active,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}

	if r.StartDate.Valid {
		t, err := parseTime(r.StartDate.String)
		if err != nil {
			return nil, fmt.Errorf("promotion %s: %w", r.ID, err)
		}
		p.StartDate = &t
	}
	if r.EndDate.Valid {
		t, err := parseTime(r.EndDate.String)
		if err != nil {
			return nil, fmt.Errorf("promotion %s: %w", r.ID, err)
		}
		p.EndDate = &t
	}
	return p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
