package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	formats := []string{"json", "text", "markdown"}

	tests := []struct {
		name      string
		format    string
		supported []string
		wantErr   bool
	}{
		{"json accepted", "json", formats, false},
		{"text accepted", "text", formats, false},
		{"markdown accepted", "markdown", formats, false},
		{"xml rejected", "xml", formats, true},
		{"matching is case sensitive", "JSON", formats, true},
		{"empty format rejected", "", formats, true},
		{"empty allow-list accepts anything", "xml", nil, false},
		{"single-entry list", "text", []string{"json"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supported)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for format %q", tt.format)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestValidateOutputFormatErrorNamesAlternatives(t *testing.T) {
	err := ValidateOutputFormat("yaml", []string{"json", "text"})
	if err == nil {
		t.Fatal("Expected error")
	}
	for _, want := range []string{`"yaml"`, "json, text"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in error, got %q", want, err.Error())
		}
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := []string{"json", "text", "markdown"}
	got := GetSupportedFormats(formats)
	if len(got) != len(formats) {
		t.Fatalf("Expected %d formats, got %d", len(formats), len(got))
	}
	for i, f := range formats {
		if got[i] != f {
			t.Errorf("Expected format[%d] = %q, got %q", i, f, got[i])
		}
	}
}
