package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rl1809/techmart/internal/core/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\(\d{3}\)\s\d{3}-\d{4}$`)
)

const (
	msgInvalidEmail = "Please enter a valid email address"
	msgInvalidPhone = "Please enter a valid phone number: (123) 456-7890"
)

type FormValidator struct{}

func NewFormValidator() *FormValidator {
	return &FormValidator{}
}

// ValidateField checks required, email and tel rules. A later failing rule
// replaces the message of an earlier one.
func (v *FormValidator) ValidateField(field domain.FormField) domain.FieldResult {
	valid := true
	message := ""

	if field.Required && strings.TrimSpace(field.Value) == "" {
		message = fmt.Sprintf("%s is required", field.DisplayLabel())
		valid = false
	}
	// email inputs are matched on their trimmed value
	if email := strings.TrimSpace(field.Value); field.Type == domain.FieldEmail && email != "" && !emailPattern.MatchString(email) {
		message = msgInvalidEmail
		valid = false
	}
	if field.Type == domain.FieldTel && field.Value != "" && !phonePattern.MatchString(field.Value) {
		message = msgInvalidPhone
		valid = false
	}

	border := domain.BorderValid
	if !valid {
		border = domain.BorderInvalid
	}
	return domain.FieldResult{
		Field:       field.Name,
		ErrorSlot:   field.ErrorSlot(),
		Valid:       valid,
		Message:     message,
		BorderColor: border,
	}
}

// ValidateContactForm validates every required field and fails if any of them fails.
func (v *FormValidator) ValidateContactForm(form domain.Form) (bool, []domain.FieldResult) {
	ok := true
	results := []domain.FieldResult{}
	for _, field := range form.Fields {
		if !field.Required {
			continue
		}
		r := v.ValidateField(field)
		if !r.Valid {
			ok = false
		}
		results = append(results, r)
	}
	return ok, results
}
