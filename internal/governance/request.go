// Package governance validates analysis requests, enforces the session
// request budget and records an execution trace.
package governance

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/cognicore/trendops/internal/settings"
	"github.com/cognicore/trendops/pkg/trendops/internalerr"
)

const DefaultRegion = "US"

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	RegionCode          string `json:"region_code" validate:"required,region"`
	CategoryID          string `json:"category_id,omitempty" validate:"omitempty,category"`
	MaxResults          int    `json:"max_results" validate:"min=1,max=50"`
	IncludeIntelligence bool   `json:"include_intelligence"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("region", func(fl validator.FieldLevel) bool {
			return settings.ValidRegion(fl.Field().String())
		})
		_ = validate.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return settings.ValidCategory(fl.Field().String())
		})
	})
	return validate
}

// Normalize fills defaults and validates r. maxPerRequest further caps
// MaxResults; zero leaves only the static 1..50 bound.
func (r *AnalyzeRequest) Normalize(defaultMax, maxPerRequest int) error {
	r.RegionCode = strings.ToUpper(strings.TrimSpace(r.RegionCode))
	if r.RegionCode == "" {
		r.RegionCode = DefaultRegion
	}
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	if r.MaxResults == 0 {
		r.MaxResults = defaultMax
	}

	if err := validatorInstance().Struct(r); err != nil {
		return translate(err)
	}
	if maxPerRequest > 0 && r.MaxResults > maxPerRequest {
		return fmt.Errorf("%w: max_results must be at most %d", internalerr.ErrInvalidInput, maxPerRequest)
	}
	return nil
}

func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "region":
		msg = fmt.Sprintf("invalid region code %q; valid: %s", fe.Value(), strings.Join(settings.Regions(), ", "))
	case "category":
		msg = fmt.Sprintf("invalid category id %q", fe.Value())
	case "min", "max":
		msg = fmt.Sprintf("max_results must be between 1 and 50, got %v", fe.Value())
	default:
		msg = fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidInput, msg)
}
