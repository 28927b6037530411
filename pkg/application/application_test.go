package application

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type reportService struct {
	name string
}

func TestApplication_ServiceRegistry(t *testing.T) {
	app := New(&ApplicationOptions{})
	app.RegisterServices(&reportService{name: "leaderboard"})

	svc := app.Service(reportService{}).(*reportService)
	require.Equal(t, "leaderboard", svc.name)
	require.Len(t, app.Services(), 1)
	require.NotNil(t, app.EventPublisher())
	require.NotNil(t, app.Toast())
	require.NotNil(t, app.Logger())

	require.Panics(t, func() { app.Service(struct{}{}) })
}
