package gameapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-maze/game"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// streamError is sent when a move from the client is rejected.
type streamError struct {
	Error string `json:"error"`
}

// stream upgrades to a websocket and drives the session on the frame clock: one tick per frame,
// with the resulting view sent to the client. Clients send MoveRequest messages to play.
// The stream ends after the frame that shows the completed maze.
func (sc *SessionController) stream(ctx *gin.Context) {
	sessionID, ok := sc.ownedSession(ctx)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		sc.logger.Warning(fmt.Sprintf("upgrading stream of session %s: %s", sessionID, err))
		return
	}
	defer conn.Close()

	moves := make(chan MoveRequest, 16)
	done := make(chan struct{})
	go sc.readMoves(conn, sessionID, moves, done)

	ticker := time.NewTicker(sc.frameInterval)
	defer ticker.Stop()

	reqCtx := ctx.Request.Context()
	for {
		select {
		case <-done:
			return
		case <-reqCtx.Done():
			return
		case m := <-moves:
			if _, err := sc.sessions.Move(reqCtx, sessionID, m.Direction); err != nil {
				if !sc.write(conn, streamError{Error: err.Error()}) {
					return
				}
			}
		case <-ticker.C:
			view, err := sc.sessions.Tick(reqCtx, sessionID, 1)
			if err != nil {
				_ = sc.write(conn, streamError{Error: err.Error()})
				return
			}
			if !sc.write(conn, view) {
				return
			}
			if view.Snapshot.State == game.Complete {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "maze complete"))
				return
			}
		}
	}
}

// readMoves decodes client messages until the connection closes.
func (sc *SessionController) readMoves(conn *websocket.Conn, sessionID uuid.UUID, moves chan<- MoveRequest, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				sc.logger.Warning(fmt.Sprintf("stream of session %s closed: %s", sessionID, err))
			}
			return
		}

		var m MoveRequest
		if err := json.Unmarshal(message, &m); err != nil || m.Direction == "" {
			continue
		}

		select {
		case moves <- m:
		default:
			// Frames are the rate limit; moves beyond the buffer are dropped.
		}
	}
}

func (sc *SessionController) write(conn *websocket.Conn, v any) bool {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(v) == nil
}
