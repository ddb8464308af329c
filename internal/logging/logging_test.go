package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(true, true, &buf)
	t.Cleanup(func() { Init(false) })

	log.Debug().Str("project_id", "p1").Msg("loaded")
	assert.True(t, DebugEnabled())
	assert.Contains(t, buf.String(), `"project_id":"p1"`)
	assert.Contains(t, buf.String(), `"level":"debug"`)
}

func TestInitWriterConsoleHidesDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(false, false, &buf)
	t.Cleanup(func() { Init(false) })

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	assert.False(t, DebugEnabled())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
