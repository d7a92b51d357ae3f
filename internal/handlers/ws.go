// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/avery-dunn/nutriguide/internal/middleware"
	"github.com/avery-dunn/nutriguide/internal/presence"
)

// inboundFrame is what clients send over the socket. Only send_message
// is understood today.
type inboundFrame struct {
	Event string `json:"event"`
	Data  struct {
		ReceiverID uuid.UUID `json:"receiver_id"`
		Content    string    `json:"content"`
	} `json:"data"`
}

// NotifyWSHandler upgrades the connection, registers a presence session
// for the authenticated user and pumps payloads until the peer leaves.
func (s *Server) NotifyWSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"notify"},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			s.Logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "notify" {
			c.Close(BadSubprotocolError, "client must speak the notify subprotocol")
			return
		}

		userID, err := authenticate(r)
		if err != nil {
			c.Close(InvalidAuthTokenError, "authentication failed")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		session := presence.NewSession(userID, cancel)
		s.Registry.Register(session)
		middleware.LogWebSocketConnect(s.Logger, remoteAddr, r.URL.Path)

		go s.writePump(ctx, c, session)
		readErr := s.readPump(ctx, c, userID)

		s.Registry.Unregister(session)
		cancel()
		middleware.LogWebSocketDisconnect(s.Logger, remoteAddr, r.URL.Path, readErr)
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

// writePump drains the session's outbound queue onto the socket.
func (s *Server) writePump(ctx context.Context, c *websocket.Conn, session *presence.Session) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-session.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(payload)
			if err != nil {
				s.Logger.WithError(err).Warn("failed to marshal outbound payload")
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				s.Logger.WithFields(logrus.Fields{
					"user_id": session.UserID,
				}).Warnf("websocket write failed: %v", err)
				return
			}
		}
	}
}

// readPump handles inbound frames until the connection drops.
func (s *Server) readPump(ctx context.Context, c *websocket.Conn, userID uuid.UUID) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		_, data, err := c.Read(ctx)
		if err != nil {
			return err
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			s.Logger.Warnf("ignoring malformed frame from %v: %v", userID, err)
			continue
		}

		switch frame.Event {
		case "send_message":
			if frame.Data.ReceiverID == uuid.Nil || frame.Data.Content == "" {
				continue
			}
			if _, err := s.Social.SendMessage(ctx, userID, frame.Data.ReceiverID, frame.Data.Content); err != nil {
				s.Logger.WithError(err).WithField("user_id", userID).Warn("websocket send_message failed")
			}
		default:
			s.Logger.Debugf("unknown frame event %q from %v", frame.Event, userID)
		}
	}
}
