package observability

import (
	"context"
	"testing"

	"taskboss/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOTelDisabled(t *testing.T) {
	shutdown, err := InitOTel(context.Background(), logger.Nop(), OtelConfig{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOTelStdout(t *testing.T) {
	shutdown, err := InitOTel(context.Background(), logger.Nop(), OtelConfig{Enabled: true, Environment: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
