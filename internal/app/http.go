package app

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/TWRT/teamwork-tasks/internal/api"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

// ServeHTTP runs the API and the reminder scheduler until ctx is done, then
// shuts the server down within the configured timeout.
func (a *App) ServeHTTP(ctx context.Context) error {
	httpCfg := a.Config.HTTP
	lock := &sync.Mutex{}

	server := &http.Server{
		Addr:    httpCfg.Addr,
		Handler: api.SetupRouter(a.Registry, a.Notifier, lock),
	}

	scheduler := service.NewReminderScheduler(
		a.Notifier,
		a.Config.Reminder.Interval,
		lock,
		a.Logger.With().Str("component", "scheduler").Logger(),
	)
	schedulerCtx, stopScheduler := context.WithCancel(ctx)
	defer stopScheduler()
	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(schedulerCtx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		a.Logger.Info().
			Str("addr", httpCfg.Addr).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stopScheduler()
		<-schedulerDone
		return err
	case <-ctx.Done():
	}

	a.Logger.Info().
		Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	stopScheduler()
	err := server.Shutdown(shutdownCtx)
	<-schedulerDone
	if err != nil {
		a.Logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	a.Logger.Info().Msg("shut down http server")
	return nil
}
