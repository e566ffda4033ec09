package common

import (
	"fmt"
	"slices"
	"strings"
)

// ValidateOutputFormat checks format against the configured allow-list.
// An empty list disables the check.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 || slices.Contains(supportedFormats, format) {
		return nil
	}
	return fmt.Errorf("unsupported output format %q (supported: %s)",
		format, strings.Join(supportedFormats, ", "))
}

// GetSupportedFormats returns the configured format list for shell
// completion.
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}
