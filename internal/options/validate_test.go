package options

import (
	"errors"
	"testing"

	"github.com/erraggy/apichangelog/oaserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{"exactly one", []bool{false, true, false}, ""},
		{"none", []bool{false, false}, "must specify an input source (use WithOldSpec or WithOldFilePath)"},
		{"several", []bool{true, true}, "must specify exactly one input source, got 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("old spec", "WithOldSpec or WithOldFilePath", tt.sources...)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.True(t, errors.Is(err, oaserrors.ErrConfig))

			var cfgErr *oaserrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "old spec", cfgErr.Option)
		})
	}
}
