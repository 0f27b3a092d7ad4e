package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DRSN-tech/calories-backend/internal/domain"
	"github.com/DRSN-tech/calories-backend/pkg/e"
)

var slugRe = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// fieldErrors собирает ошибки по полям и отдаёт e.ValidationError, если они есть.
type fieldErrors map[string]string

func (f fieldErrors) name(field, value string) {
	switch {
	case strings.TrimSpace(value) == "":
		f[field] = "this field may not be blank"
	case utf8.RuneCountInString(value) > domain.NameMaxLength:
		f[field] = fmt.Sprintf("ensure this field has no more than %d characters", domain.NameMaxLength)
	}
}

func (f fieldErrors) slug(field, value string) {
	f.name(field, value)
	if _, ok := f[field]; !ok && !slugRe.MatchString(value) {
		f[field] = "enter a valid slug consisting of letters, numbers, underscores or hyphens"
	}
}

func (f fieldErrors) smallInt(field string, value, min int) {
	if value < min || value > domain.MaxSmallInt {
		f[field] = fmt.Sprintf("ensure this value is between %d and %d", min, domain.MaxSmallInt)
	}
}

func (f fieldErrors) unit(field string, value domain.UnitOfMeasurement) {
	if !value.Valid() {
		f[field] = fmt.Sprintf("%q is not a valid choice", value)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}

	return e.NewValidationError(f)
}

func validateCategory(c *domain.Category) error {
	f := fieldErrors{}
	f.name("name", c.Name)
	f.slug("slug", c.Slug)

	return f.err()
}

func validateProduct(p *domain.Product) error {
	f := fieldErrors{}
	f.name("name", p.Name)
	f.smallInt("weight", p.Weight, 1)
	f.unit("unit_of_measurement", p.UnitOfMeasurement)
	f.smallInt("kcal", p.Kcal, 0)

	return f.err()
}

func validateEatenWeight(weight int) error {
	f := fieldErrors{}
	f.smallInt("weight", weight, 1)

	return f.err()
}
