package server

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

const testPin = "4321"

var quizNight = time.Date(2024, 11, 8, 19, 30, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestDeps() Deps {
	logger := discardLogger()
	clock := clockwork.NewFakeClockAt(quizNight)
	store := scoreboard.NewStore(scoreboard.Default(clock.Now()))
	broker := NewBroker(logger)

	return Deps{
		Store: store,
		Dispatcher: scoreboard.NewDispatcher(scoreboard.DispatcherConfig{
			Store:       store,
			Broadcaster: broker,
			Clock:       clock,
			Logger:      logger,
		}),
		Broker: broker,
		Gate:   NewGate(testPin),
		Clock:  clock,
	}
}

func newTestServer(t *testing.T, deps Deps) *httptest.Server {
	t.Helper()
	s := New("", discardLogger(), deps)
	ts := httptest.NewServer(s.srv.Handler)
	t.Cleanup(ts.Close)
	return ts
}
