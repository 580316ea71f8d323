package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"

	"github.com/Zanziz/MK-project/brackets"
	"github.com/Zanziz/MK-project/services"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub               *brackets.Hub
	tournamentService services.TournamentService
	upgrader          websocket.Upgrader
	logger            *slog.Logger
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows any origin.
func NewWebSocketHandler(hub *brackets.Hub, ts services.TournamentService, allowedOrigins []string, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub:               hub,
		tournamentService: ts,
		logger:            logger.With(slog.String("component", "ws_handler")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWs подключает клиента к комнате турнира и сразу отправляет текущее состояние.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader.Upgrade сам отправляет HTTP ошибку клиенту, так что здесь просто логируем.
		h.logger.Warn("failed to upgrade connection", slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256), // Буферизированный канал
		Room: brackets.TournamentRoom,
	}

	// Сначала регистрируем клиента, потом читаем состояние: обновление между
	// этими шагами не теряется. Клиенты сравнивают payload.version.
	if !h.hub.Join(client) {
		conn.Close()
		return
	}

	snapshot, err := json.Marshal(brackets.WebSocketMessage{
		Type:    brackets.MessageStateUpdated,
		Payload: h.tournamentService.GetState(r.Context()),
		RoomID:  brackets.TournamentRoom,
	})
	if err != nil {
		h.logger.Error("failed to encode initial state", slog.Any("error", err))
	} else if !client.Enqueue(snapshot) {
		h.logger.Warn("failed to queue initial state")
	}

	go client.WritePump()
	go client.ReadPump()

	h.logger.Debug("client connected", slog.String("remote_addr", r.RemoteAddr))
}
