package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/jmodel/internal/app"
	_ "go.trai.ch/jmodel/internal/wiring" // Register providers
)

func TestNewApp_Success(t *testing.T) {
	components, err := app.NewApp(context.Background())
	require.NoError(t, err)

	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	require.Empty(t, components.App.Root())
}
