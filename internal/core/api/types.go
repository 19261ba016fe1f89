// Package api implements the REST API for managing and evaluating
// promotions. It handles HTTP routing, request decoding, validation, and
// response formatting.
package api

import (
	"strings"
	"time"

	"github.com/promolang/promolang/internal/core/db"
	"github.com/promolang/promolang/internal/parser"
	"github.com/promolang/promolang/internal/types"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	// Code is a machine-readable error code (e.g., "ERR_INVALID_INPUT").
	Code string `json:"code"`

	// Message is a human-readable description of the error.
	Message string `json:"message"`
}

// PromotionResponse is the stored promotion resource.
type PromotionResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Source    string     `json:"source"`
	Checksum  string     `json:"checksum"`
	Active    bool       `json:"active"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CreatePromotionRequest creates a stored promotion from DSL source.
// Name is optional; when empty it is taken from the promotion header in
// the source. Active defaults to true.
type CreatePromotionRequest struct {
	Name      string     `json:"name"`
	Source    string     `json:"source"`
	Active    *bool      `json:"active"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

// Sanitize normalizes the request in place.
func (r *CreatePromotionRequest) Sanitize() {
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks the request and parses the DSL source. On success the
// parsed definition's name fills a missing Name.
func (r *CreatePromotionRequest) Validate() *ErrorResponse {
	if r.Source == "" {
		return &ErrorResponse{Code: "ERR_INVALID_INPUT", Message: "Source is required"}
	}
	if len(r.Source) > types.MaxSourceSize {
		return &ErrorResponse{Code: "ERR_SOURCE_TOO_LARGE", Message: "Source exceeds the maximum definition size"}
	}

	def, err := parser.ParseSource(r.Source)
	if err != nil {
		return &ErrorResponse{Code: "ERR_INVALID_SOURCE", Message: err.Error()}
	}
	if r.Name == "" {
		r.Name = def.Name
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return &ErrorResponse{Code: "ERR_INVALID_INPUT", Message: "end_date must not precede start_date"}
	}
	return nil
}

// IsActive resolves the Active default.
func (r *CreatePromotionRequest) IsActive() bool {
	if r.Active == nil {
		return true
	}
	return *r.Active
}

// UpdatePromotionRequest replaces a stored promotion's mutable fields.
// Semantics match CreatePromotionRequest.
type UpdatePromotionRequest = CreatePromotionRequest

// EvalContextRequest carries the evaluation input: the cart being checked
// out and the promotion configuration.
type EvalContextRequest struct {
	Cart   *types.Cart  `json:"cart"`
	Config types.Config `json:"config"`
}

// Context materializes the request as an engine context.
func (r *EvalContextRequest) Context() *types.Context {
	return &types.Context{Cart: r.Cart, Config: r.Config}
}

// EvaluateRequest evaluates inline DSL source without storing it.
type EvaluateRequest struct {
	Source string       `json:"source"`
	Cart   *types.Cart  `json:"cart"`
	Config types.Config `json:"config"`
}

// Validate checks size limits; source syntax errors surface from the
// handler with position information.
func (r *EvaluateRequest) Validate() *ErrorResponse {
	if r.Source == "" {
		return &ErrorResponse{Code: "ERR_INVALID_INPUT", Message: "Source is required"}
	}
	if len(r.Source) > types.MaxSourceSize {
		return &ErrorResponse{Code: "ERR_SOURCE_TOO_LARGE", Message: "Source exceeds the maximum definition size"}
	}
	return nil
}

// ApplyResponse is the outcome of applying a promotion to a context.
// PotentialValue reports what the cart would earn regardless of the
// promotion's validation gate; Cached marks results served from the
// result cache.
type ApplyResponse struct {
	Result         *types.PromotionResult `json:"result"`
	PotentialValue float64                `json:"potential_value"`
	Cached         bool                   `json:"cached,omitempty"`
}

func mapPromotionToResponse(p *db.Promotion) *PromotionResponse {
	return &PromotionResponse{
		ID:        string(p.ID),
		Name:      p.Name,
		Source:    p.Source,
		Checksum:  p.Checksum,
		Active:    p.Active,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
