package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"nhooyr.io/websocket"

	"github.com/playperu/scoreboard/internal/scoreboard"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// HelloMessage greets a client right after it connects.
type HelloMessage struct {
	ServerTime string `json:"serverTime"`
	IsAdmin    bool   `json:"isAdmin"`
	QuizTitle  string `json:"quizTitle"`
}

// ErrorMessage reports a rejected action to the client that sent it.
type ErrorMessage struct {
	Message string `json:"message"`
}

// handleSocket upgrades to a WebSocket that receives hello and state on
// connect, every state broadcast afterwards, and accepts admin:action
// messages from admin connections.
func handleSocket(logger *slog.Logger, clock clockwork.Clock, gate Gate, dispatcher *scoreboard.Dispatcher, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		isAdmin := gate.FromRequest(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		log := logger.With("conn_id", uuid.NewString(), "admin", isAdmin)

		var out chan Message
		snap := dispatcher.Attach(func() { out = broker.Subscribe() })
		defer broker.Unsubscribe(out)
		log.Info("client connected", "subscribers", broker.Subscribers())
		defer log.Info("client disconnected")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		hello, err := newMessage(EventHello, HelloMessage{
			ServerTime: scoreboard.FormatTime(clock.Now()),
			IsAdmin:    isAdmin,
			QuizTitle:  snap.QuizTitle,
		})
		if err != nil {
			log.Error("encoding hello", "error", err)
			return
		}
		state, err := newMessage(EventState, snap)
		if err != nil {
			log.Error("encoding state", "error", err)
			return
		}
		for _, msg := range []Message{hello, state} {
			if err := writeMessage(ctx, conn, msg); err != nil {
				log.Debug("websocket write failed", "error", err)
				return
			}
		}

		go func() {
			defer cancel()
			readActions(ctx, conn, isAdmin, dispatcher, out, log)
		}()

		ping := clock.NewTicker(pingInterval)
		defer ping.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-out:
				if err := writeMessage(ctx, conn, msg); err != nil {
					log.Debug("websocket write failed", "error", err)
					return
				}
			case <-ping.Chan():
				pctx, pcancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Ping(pctx)
				pcancel()
				if err != nil {
					log.Debug("websocket ping failed", "error", err)
					return
				}
			}
		}
	}
}

// readActions handles client messages until the connection ends. Replies
// go through out so they stay ordered after the broadcast they follow.
func readActions(ctx context.Context, conn *websocket.Conn, isAdmin bool, dispatcher *scoreboard.Dispatcher, out chan<- Message, log *slog.Logger) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			log.Debug("websocket read ended", "error", err)
			return
		}

		var in Message
		if err := json.Unmarshal(data, &in); err != nil {
			reply(ctx, out, EventAdminError, ErrorMessage{Message: "invalid input: malformed message"})
			continue
		}
		if in.Event != EventAdminAction {
			log.Debug("ignoring client event", "event", in.Event)
			continue
		}

		ack, err := dispatcher.Dispatch(ctx, isAdmin, in.Data)
		if err != nil {
			log.Info("action rejected", "error", err)
			reply(ctx, out, EventAdminError, ErrorMessage{Message: err.Error()})
			continue
		}
		reply(ctx, out, EventAdminOK, ack)
	}
}

func reply(ctx context.Context, out chan<- Message, event string, v any) {
	msg, err := newMessage(event, v)
	if err != nil {
		return
	}
	select {
	case out <- msg:
	case <-ctx.Done():
	}
}

func writeMessage(ctx context.Context, conn *websocket.Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
