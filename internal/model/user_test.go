package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "nutritrack/internal/errors"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with digits", "alice42", false},
		{"valid with underscore and hyphen", "dev_test-user", false},
		{"minimum length", "abc", false},
		{"too short", "ab", true},
		{"empty", "", true},
		{"contains space", "alice smith", true},
		{"contains at sign", "alice@example", true},
		{"contains dot", "alice.smith", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
