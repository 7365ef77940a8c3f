package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/medichat/backend/internal/api/middleware"
	"github.com/medichat/backend/internal/application/services"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/domain/providers"
	"github.com/medichat/backend/internal/infrastructure/observability"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; tighten in production.
	},
}

// WSChatHandler upgrades connections for live chat rooms. Inbound frames are
// symptom messages fed to the chat service; outbound frames are the room's
// events from the bus, so replies appear on every connected instance.
type WSChatHandler struct {
	chat *services.ChatService
	bus  providers.EventBus
}

// NewWSChatHandler creates a new websocket chat handler
func NewWSChatHandler(chat *services.ChatService, bus providers.EventBus) *WSChatHandler {
	return &WSChatHandler{chat: chat, bus: bus}
}

type wsInbound struct {
	Content string `json:"content"`
}

// HandleConnect handles GET /ws/chat/{roomID}
func (h *WSChatHandler) HandleConnect(w http.ResponseWriter, r *http.Request) {
	if h.bus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "live chat is unavailable")
		return
	}

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	roomID, err := strconv.ParseInt(r.PathValue("roomID"), 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "room ID must be an integer")
		return
	}

	logger := observability.LoggerFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := h.bus.Subscribe(ctx, providers.GetChatRoomChannel(roomID))
	if err != nil {
		logger.Error().Err(err).Int64("room_id", roomID).Msg("failed to subscribe to room channel")
		conn.Close()
		return
	}

	go h.writePump(ctx, conn, events)
	h.readPump(ctx, conn, userID, roomID)
}

func (h *WSChatHandler) readPump(ctx context.Context, conn *websocket.Conn, userID uuid.UUID, roomID int64) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var inbound wsInbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			// Treat non-JSON frames as plain text symptom messages.
			inbound.Content = string(data)
		}

		// The reply comes back through the room channel subscription, not
		// the return value, so every connected client sees it.
		if _, err := h.chat.HandleMessage(ctx, userID, roomID, inbound.Content); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Int64("room_id", roomID).
				Msg("failed to handle websocket chat message")
		}
	}
}

func (h *WSChatHandler) writePump(ctx context.Context, conn *websocket.Conn, events <-chan *entities.Event) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
