package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MEERTECHLTD/ClearMind-sub001/internal/config"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/logger"
	"github.com/MEERTECHLTD/ClearMind-sub001/internal/service"
)

// http.NewHandler only stores the services pointer, so an empty value is
// enough for construction-time tests.
func newTestServices() *service.Services {
	return &service.Services{}
}

func TestNewHandlers_HTTPAddress(t *testing.T) {
	h, err := NewHandlers(newTestServices(), config.Server{HTTPAddress: ":8080"}, logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, h)
	assert.NotNil(t, h.HTTP, "expected HTTP handler to be initialised")
}

func TestNewHandlers_NoAddress(t *testing.T) {
	h, err := NewHandlers(newTestServices(), config.Server{}, logger.Nop())

	require.ErrorIs(t, err, errNoHandlersAreCreated)
	assert.Nil(t, h)
}

func TestNewHandlers_IndependentInstances(t *testing.T) {
	cfg := config.Server{HTTPAddress: ":8080"}

	h1, err := NewHandlers(newTestServices(), cfg, logger.Nop())
	require.NoError(t, err)
	h2, err := NewHandlers(newTestServices(), cfg, logger.Nop())
	require.NoError(t, err)

	assert.NotSame(t, h1.HTTP, h2.HTTP)
}
