package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"track_swiftly/internal/config"
)

func TestNewApplicationDisabled(t *testing.T) {
	app, err := NewApplication(config.NewRelicConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, app)

	app, err = NewApplication(config.NewRelicConfig{Enabled: true, AppName: "track_swiftly"})
	require.NoError(t, err)
	assert.Nil(t, app)

	Shutdown(nil, time.Second)
}
