package dto

import (
	"time"

	"github.com/finance-tracker/debts/internal/domain/entity"
)

// CreateMatchingRuleRequest represents the request body for rule creation.
type CreateMatchingRuleRequest struct {
	Type                string `json:"type" binding:"required"`
	Field               string `json:"field" binding:"required"`
	Value               string `json:"value" binding:"required"`
	ConfidenceThreshold *int   `json:"confidence_threshold,omitempty"`
}

// ToggleMatchingRuleRequest represents the optional body of a rule toggle.
// Without a body the rule's current state is flipped.
type ToggleMatchingRuleRequest struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// MatchingRuleResponse represents a single matching rule in API responses.
type MatchingRuleResponse struct {
	ID                  string    `json:"id"`
	DebtID              string    `json:"debt_id"`
	Type                string    `json:"type"`
	Field               string    `json:"field"`
	Value               string    `json:"value"`
	ConfidenceThreshold int       `json:"confidence_threshold"`
	Enabled             bool      `json:"enabled"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// MatchingRuleListResponse represents the response for listing rules.
type MatchingRuleListResponse struct {
	Rules        []MatchingRuleResponse `json:"rules"`
	Bootstrapped bool                   `json:"bootstrapped"`
}

// ToMatchingRuleResponse converts a domain MatchingRule entity to its response DTO.
func ToMatchingRuleResponse(r *entity.MatchingRule) MatchingRuleResponse {
	return MatchingRuleResponse{
		ID:                  r.ID.String(),
		DebtID:              r.DebtID.String(),
		Type:                string(r.Type),
		Field:               string(r.Field),
		Value:               r.Value,
		ConfidenceThreshold: r.ConfidenceThreshold,
		Enabled:             r.Enabled,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

// ToMatchingRuleListResponse converts a slice of rules to a list response DTO.
func ToMatchingRuleListResponse(rules []*entity.MatchingRule, bootstrapped bool) MatchingRuleListResponse {
	responses := make([]MatchingRuleResponse, len(rules))
	for i, r := range rules {
		responses[i] = ToMatchingRuleResponse(r)
	}
	return MatchingRuleListResponse{Rules: responses, Bootstrapped: bootstrapped}
}
