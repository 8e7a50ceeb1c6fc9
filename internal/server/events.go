package server

import (
	"fmt"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

// handleEvents streams state snapshots as Server-Sent Events for read-only
// displays that cannot hold a WebSocket.
func handleEvents(clock clockwork.Clock, dispatcher *scoreboard.Dispatcher, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		var ch chan Message
		snap := dispatcher.Attach(func() { ch = broker.Subscribe() })
		defer broker.Unsubscribe(ch)

		initial, err := newMessage(EventState, snap)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeEvent(w, initial)
		flusher.Flush()

		ping := clock.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case msg := <-ch:
				if msg.Event != EventState {
					continue
				}
				writeEvent(w, msg)
				flusher.Flush()
			case <-ping.Chan():
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}

func writeEvent(w http.ResponseWriter, msg Message) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, msg.Data)
}
