package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const maxRules = 50

func ValidateCreateCampaignInput(input CreateCampaignInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errors = append(errors, ValidationError{"name", "must not exceed 200 characters"})
	}

	if input.Type == "" {
		errors = append(errors, ValidationError{"type", "is required"})
	} else if !entity.CampaignType(input.Type).Valid() {
		errors = append(errors, ValidationError{"type", "must be one of promotional, win-back, retention, welcome"})
	}

	if strings.TrimSpace(input.Message) == "" {
		errors = append(errors, ValidationError{"message", "is required"})
	}

	switch entity.CampaignStatus(input.Status) {
	case "", entity.CampaignDraft, entity.CampaignRunning:
	default:
		errors = append(errors, ValidationError{"status", "must be draft or running"})
	}

	errors = append(errors, validateRules(input.Rules)...)
	return errors
}

// validateRules only checks shape. Unsupported field/operator pairs are
// dropped by the evaluator, not rejected.
func validateRules(rules []entity.SegmentRule) []ValidationError {
	var errors []ValidationError
	if len(rules) > maxRules {
		errors = append(errors, ValidationError{"rules", fmt.Sprintf("must not exceed %d rules", maxRules)})
	}
	for i, r := range rules {
		if strings.TrimSpace(r.Field) == "" {
			errors = append(errors, ValidationError{fmt.Sprintf("rules[%d].field", i), "is required"})
		}
		if strings.TrimSpace(r.Operator) == "" {
			errors = append(errors, ValidationError{fmt.Sprintf("rules[%d].operator", i), "is required"})
		}
	}
	return errors
}

func ValidateCreateOrderInput(input CreateOrderInput) []ValidationError {
	var errors []ValidationError
	if strings.TrimSpace(input.CustomerID) == "" {
		errors = append(errors, ValidationError{"customerId", "is required"})
	}
	if input.Amount <= 0 {
		errors = append(errors, ValidationError{"amount", "must be positive"})
	}
	return errors
}

// joinValidationErrors renders the list the same way for every use case.
func joinValidationErrors(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" ("+e.Message+")")
	}
	return validationError("validation failed: " + strings.Join(parts, ", "))
}
