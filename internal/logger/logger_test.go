package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}

	log, err := NewWithWriter(buf, "info")
	require.NoError(t, err)

	log.Debug().Msg("hidden")
	log.Info().Str("account", "x").Msg("recomputed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"recomputed"`)
	assert.Contains(t, out, `"account":"x"`)
}

func TestParseLevel(t *testing.T) {
	type testCase struct {
		name    string
		level   string
		want    zerolog.Level
		wantErr bool
	}

	tests := []testCase{
		{name: "empty defaults to info", level: "", want: zerolog.InfoLevel},
		{name: "case insensitive", level: " DEBUG ", want: zerolog.DebugLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "unknown", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}

	log, err := NewWithWriter(buf, "debug")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), log)
	FromContext(ctx).Info().Msg("from context")

	assert.Contains(t, buf.String(), "from context")
	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
