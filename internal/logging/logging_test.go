package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithOutput(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{"JSON debug", "debug", "json", logrus.DebugLevel, true},
		{"Text warn", "warn", "text", logrus.WarnLevel, false},
		{"Unknown level falls back to info", "loud", "", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithOutput(&buf, tt.level, tt.format)

			assert.Equal(t, tt.wantLevel, logger.GetLevel())

			logger.WithField("component", "test").Warn("hello")
			if tt.wantJSON {
				var entry map[string]any
				require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
				assert.Equal(t, "hello", entry["msg"])
				assert.Equal(t, "test", entry["component"])
			} else {
				assert.Contains(t, buf.String(), "msg=hello")
			}
		})
	}
}
