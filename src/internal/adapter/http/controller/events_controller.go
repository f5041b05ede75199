package controller

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/bankist/src/internal/logger"
	"github.com/api-sage/bankist/src/internal/session"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type EventSource interface {
	Subscribe(sessionID string) (<-chan session.Event, func())
}

// EventsController streams a session's timer ticks and logout over a
// WebSocket. The stream closes when the session ends.
type EventsController struct {
	events EventSource
}

func NewEventsController(events EventSource) *EventsController {
	return &EventsController{events: events}
}

func (c *EventsController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	mux.Handle("/session/events", protect(c.serveWS, authMiddleware))
}

func (c *EventsController) serveWS(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	if sess == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	// subscribe before the liveness check: a session ending after this point
	// closes the channel, one that ended before is caught here
	events, unsubscribe := c.events.Subscribe(sess.ID)
	if !sess.Active() {
		unsubscribe()
		http.Error(w, "session ended", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		unsubscribe()
		logError(r, err, nil)
		return
	}

	logger.Info("session event stream opened", logger.Fields{"sessionId": sess.ID})

	// the current display goes out first so the client does not wait a tick
	first := session.Event{Type: session.EventTick, SessionID: sess.ID, Remaining: sess.TimerDisplay(), At: time.Now().UTC()}

	done := make(chan struct{})
	go readPump(conn, done)
	writePump(conn, first, events, done)

	unsubscribe()
	logger.Info("session event stream closed", logger.Fields{"sessionId": sess.ID})
}

func writePump(conn *websocket.Conn, first session.Event, events <-chan session.Event, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	if err := writeEvent(conn, first); err != nil {
		return
	}

	for {
		select {
		case event, ok := <-events:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
			if err := writeEvent(conn, event); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}

func writeEvent(conn *websocket.Conn, event session.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// readPump only watches for the client going away.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
