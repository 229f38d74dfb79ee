package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// ChatRelay persists a relayed chat message and takes care of notifying the
// counterpart. Implemented by the chat service; declared here so the socket
// layer doesn't depend on the service layer.
type ChatRelay interface {
	RelayMessage(ctx context.Context, senderID, conversationID, content string) (*Message, error)
}

// inbound is the envelope read off the wire; the payload stays raw until the
// type is known.
type inbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	UserID      string `json:"userId"`
	ModeratorID string `json:"moderatorId"`
}

type chatPayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
}

// ChatHandler owns the lifecycle of a single socket: identification, message
// relay and teardown.
type ChatHandler struct {
	users      Registry
	moderators Registry
	relay      ChatRelay
	logger     *zap.Logger
}

func NewChatHandler(users, moderators Registry, relay ChatRelay, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{users: users, moderators: moderators, relay: relay, logger: logger}
}

const relayTimeout = 10 * time.Second

// Handle runs the read loop for one connection. The first accepted frame must
// be a join or moderator_join; everything before that is rejected with an
// error envelope. Connections are unregistered on any read failure.
func (h *ChatHandler) Handle(conn *websocket.Conn) {
	client := NewClient("", conn)
	go client.WritePump()

	var (
		registry Registry
		joined   bool
	)
	defer func() {
		if joined {
			registry.Unregister(client.ID, client)
		}
		client.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			client.Enqueue(errorMessage("invalid_payload", "Mensaje inválido"))
			continue
		}

		switch msg.Type {
		case MessageTypeJoin, MessageTypeModeratorJoin:
			if joined {
				client.Enqueue(errorMessage("already_joined", "La sesión ya está identificada"))
				continue
			}
			var p joinPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil {
				client.Enqueue(errorMessage("invalid_payload", "Mensaje inválido"))
				continue
			}
			id := p.UserID
			registry = h.users
			if msg.Type == MessageTypeModeratorJoin {
				id = p.ModeratorID
				registry = h.moderators
			}
			if id == "" {
				client.Enqueue(errorMessage("invalid_payload", "Identificador requerido"))
				continue
			}
			client.ID = id
			joined = true
			registry.Register(id, client)
			client.Enqueue(NewMessage(MessageTypeSystem, map[string]string{"status": "joined"}))

		case MessageTypeChatMessage:
			if !joined || registry != h.users {
				client.Enqueue(errorMessage("not_joined", "Identifícate antes de enviar mensajes"))
				continue
			}
			var p chatPayload
			if err := json.Unmarshal(msg.Payload, &p); err != nil || p.ConversationID == "" || p.Content == "" {
				client.Enqueue(errorMessage("invalid_payload", "Mensaje inválido"))
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), relayTimeout)
			ack, err := h.relay.RelayMessage(ctx, client.ID, p.ConversationID, p.Content)
			cancel()
			if err != nil {
				h.logger.Warn("relay failed",
					zap.String("sender_id", client.ID),
					zap.String("conversation_id", p.ConversationID),
					zap.Error(err))
				client.Enqueue(errorMessage("relay_failed", "No se pudo enviar el mensaje"))
				continue
			}
			client.Enqueue(ack)

		default:
			client.Enqueue(errorMessage("unknown_type", "Tipo de mensaje no soportado"))
		}
	}
}

func errorMessage(code, text string) *Message {
	return NewMessage(MessageTypeError, ErrorPayload{Code: code, Message: text})
}
