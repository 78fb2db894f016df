package mdns

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestServiceType(t *testing.T) {
	assert.Equal(t, "_lampstand._tcp", ServiceType)
	assert.Equal(t, "v1", APIVersion)
}

func TestNewService(t *testing.T) {
	service := NewService(testLogger())

	require.NotNil(t, service)
	assert.Nil(t, service.server, "server should be nil before Start")
}

func TestStopBeforeStartIsSafe(t *testing.T) {
	service := NewService(testLogger())

	service.Stop()
	service.Stop()
	assert.Nil(t, service.server)
}
