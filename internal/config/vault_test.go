package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseVersionValue(t *testing.T) {
	tests := []struct {
		name        string
		input       any
		expected    int64
		expectError bool
	}{
		{name: "int64 value", input: int64(42), expected: 42},
		{name: "float64 value", input: float64(42.0), expected: 42},
		{name: "string value", input: "42", expected: 42},
		{name: "invalid string value", input: "not-a-number", expectError: true},
		{name: "unsupported type", input: []string{"42"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseVersionValue(tt.input, "secret/test")

			if tt.expectError {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if token != "direct-token" {
			t.Errorf("Expected 'direct-token', got '%s'", token)
		}
	})

	t.Run("token from file is trimmed", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		if err := os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600); err != nil {
			t.Fatalf("Failed to write token file: %v", err)
		}

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if token != "file-token" {
			t.Errorf("Expected 'file-token', got '%s'", token)
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"})
		if err == nil {
			t.Fatal("Expected error for missing token file")
		}
		if !strings.Contains(err.Error(), "failed to read vault token file") {
			t.Errorf("Unexpected error message: %v", err)
		}
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{})
		if err == nil {
			t.Fatal("Expected error when no token is configured")
		}
		if !strings.Contains(err.Error(), "vault token is required") {
			t.Errorf("Unexpected error message: %v", err)
		}
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		if err := os.WriteFile(tokenFile, []byte("   \n  \n"), 0600); err != nil {
			t.Fatalf("Failed to write token file: %v", err)
		}

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile})
		if err == nil {
			t.Fatal("Expected error for empty token file")
		}
		if !strings.Contains(err.Error(), "vault token is required") {
			t.Errorf("Unexpected error message: %v", err)
		}
	})
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if client != nil {
		t.Error("Expected nil client when vault is disabled")
	}
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	cfg := &Config{
		Vault: VaultConfig{Enabled: false},
	}

	if err := ApplyVaultSecrets(cfg, nil); err != nil {
		t.Errorf("Expected no error with vault disabled, got: %v", err)
	}
}
