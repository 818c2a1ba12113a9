package errors

import (
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "mye", false},
		{"valid with dash", "top-level", false},
		{"valid with underscore", "cpu_cluster", false},
		{"valid with dot", "v1.2", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("design", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeMalformedInput) {
				t.Errorf("ValidateName(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeMalformedInput)
			}
		})
	}
}

func TestValidateShapeName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"TSV", false},
		{"Blockage", false},
		{"SRAM_ARRAY_4", false},
		{"CPU2_ARRAY_A.1", false},

		{"", true},
		{"_hidden", true},
		{"with space", true},
		{"a,b", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateShapeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateShapeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
