package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"uppercase ASC", "ASC", "ASC"},
		{"lowercase asc", "asc", "ASC"},
		{"mixed case with spaces", "  Asc ", "ASC"},
		{"uppercase DESC", "DESC", "DESC"},
		{"empty defaults to DESC", "", "DESC"},
		{"injection attempt defaults to DESC", "ASC; DROP TABLE users", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"allowed field", "declaration_number", "declaration_number"},
		{"allowed field with spaces", " status ", "status"},
		{"empty defaults", "", "accepted_at"},
		{"unknown field defaults", "password", "accepted_at"},
		{"injection attempt defaults", "id; DELETE FROM customs_declarations", "accepted_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, DeclarationSortFields, "accepted_at"))
		})
	}
}
