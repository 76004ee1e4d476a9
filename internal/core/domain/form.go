package domain

import "strings"

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldTel      FieldType = "tel"
	FieldTextarea FieldType = "textarea"
	FieldSelect   FieldType = "select"
)

const (
	BorderValid   = "#d1d5db"
	BorderInvalid = "#ef4444"
)

type FormField struct {
	Name     string    `json:"name"`
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Type     FieldType `json:"type"`
	Value    string    `json:"value"`
	Required bool      `json:"required"`
}

// ErrorSlot is the id of the element that displays this field's error message.
func (f FormField) ErrorSlot() string {
	if f.Name != "" {
		return f.Name + "-error"
	}
	if f.ID != "" {
		return f.ID + "-error"
	}
	return ""
}

// DisplayLabel is the label text without the required marker.
func (f FormField) DisplayLabel() string {
	label := strings.TrimSpace(strings.ReplaceAll(f.Label, "*", ""))
	if label == "" {
		return f.Name
	}
	return label
}

type FieldResult struct {
	Field       string `json:"field"`
	ErrorSlot   string `json:"error_slot,omitempty"`
	Valid       bool   `json:"valid"`
	Message     string `json:"message"`
	BorderColor string `json:"border_color"`
}

type Form struct {
	Name   string      `json:"name"`
	Fields []FormField `json:"fields"`
}

// Value returns the value of the named field, or "" when absent.
func (f Form) Value(name string) string {
	for _, field := range f.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	return ""
}
