// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/paper-analyst/pkg/types"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		cfg     types.LogConfig
		debugOn bool
		warnOn  bool
	}{
		{types.LogConfig{Level: "debug", Format: "console"}, true, true},
		{types.LogConfig{Level: "info", Format: "json"}, false, true},
		{types.LogConfig{Level: "WARN", Format: "console"}, false, true},
		{types.LogConfig{Level: "error", Format: "json"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.Level+"/"+tt.cfg.Format, func(t *testing.T) {
			logger, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, logger.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.warnOn, logger.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(types.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
