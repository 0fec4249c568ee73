package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/bonafide-backend/internal/notify"
	"github.com/stemsi/bonafide-backend/internal/service"
	ws "github.com/stemsi/bonafide-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams request status changes to students.
type WSHandler struct {
	broker          notify.Broker
	identityService *service.IdentityService
	log             zerolog.Logger
	upgrader        websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(broker notify.Broker, identityService *service.IdentityService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		broker:          broker,
		identityService: identityService,
		log:             log.With().Str("component", "ws_handler").Logger(),
		upgrader:        buildUpgrader(allowedOrigins),
	}
}

// RequestStatusStream godoc
// WS /ws/v1/student/requests/stream?token=
// Pushes a status_changed event whenever one of the student's requests is
// approved or rejected.
func (h *WSHandler) RequestStatusStream(c *gin.Context) {
	student, ok := currentStudent(c, h.identityService, h.log)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	events, cancel, err := h.broker.Subscribe(ctx, student.ID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("student_id", student.ID).Logger()
	wsLog.Info().Msg("Student connected")

	if err := ws.WriteTyped(conn, ws.ConnectedResponse{Event: ws.EventConnected, StudentID: student.ID}); err != nil {
		return
	}

	// The reader owns conn reads; every write happens on this goroutine.
	actions := make(chan ws.Action)
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}
			select {
			case actions <- msg.Action:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			_ = ws.WriteClose(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case action := <-actions:
			switch action {
			case ws.ActionPing:
				err = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			default:
				wsLog.Warn().Str("action", string(action)).Msg("Unknown action")
				err = ws.WriteError(conn, "unknown action: "+string(action))
			}
		case e, ok := <-events:
			if !ok {
				_ = ws.WriteClose(conn, websocket.CloseNormalClosure, "subscription ended")
				return
			}
			err = ws.WriteTyped(conn, ws.StatusChangedResponse{
				Event:         ws.EventStatusChanged,
				RequestID:     e.RequestID,
				Status:        e.Status,
				ProcessedBy:   e.ProcessedBy,
				ProcessedDate: e.ProcessedDate,
			})
		}
		if err != nil {
			wsLog.Debug().Err(err).Msg("Write failed")
			return
		}
	}
}
