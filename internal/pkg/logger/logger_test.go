package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospital/internal/pkg/logger"
)

func TestLogger_WritesJSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("debug", &buf)

	log.Info("Usuário autenticado.", map[string]interface{}{"user_id": 1})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Usuário autenticado.", entry["message"])
	assert.EqualValues(t, 1, entry["user_id"])
	assert.Contains(t, entry, "time")
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("error", &buf)

	log.Debug("descartado", nil)
	log.Info("descartado", nil)
	log.Warn("descartado", nil)
	assert.Empty(t, buf.String())

	log.Error("falha", errors.New("boom"))
	assert.True(t, strings.Contains(buf.String(), `"error":"boom"`))
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter("verbose", &buf)

	log.Debug("descartado", nil)
	assert.Empty(t, buf.String())

	log.Info("registrado", nil)
	assert.NotEmpty(t, buf.String())
}
