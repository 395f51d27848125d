package logger

import (
	"testing"

	"github.com/dmehra2102/prod-golang-projects/usalclinic/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	app := config.AppConfig{Name: "usalclinic-api", Environment: "test"}

	log, err := New(config.LogConfig{Level: "debug", Format: "json", OutputPath: "stdout"}, app)
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = New(config.LogConfig{Level: "loud", Format: "console", OutputPath: "stdout"}, app)
	assert.ErrorContains(t, err, "invalid log level")
}
