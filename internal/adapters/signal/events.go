package signal

import (
	"encoding/json"

	"github.com/cinesync/cinesync/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decode unmarshals an inbound frame into a typed payload and enforces
// its required fields. Client JSON never reaches a handler unvalidated.
func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// Inbound payloads.

type joinPayload struct {
	Type     string `json:"type"`
	RoomID   string `json:"roomId" validate:"required"`
	Username string `json:"username"`
	IsHost   bool   `json:"isHost"`
}

type playbackPayload struct {
	Type        string  `json:"type"`
	RoomID      string  `json:"roomId" validate:"required"`
	CurrentTime float64 `json:"currentTime" validate:"gte=0"`
}

type chatPayload struct {
	Type    string `json:"type"`
	RoomID  string `json:"roomId" validate:"required"`
	Message string `json:"message" validate:"required"`
	Author  string `json:"author"`
	// Clients may send their own timestamp; the relay ignores it and
	// stamps send time itself.
	Timestamp int64 `json:"timestamp"`
}

type forwardPayload struct {
	Type   string          `json:"type"`
	To     string          `json:"to" validate:"required"`
	Signal json.RawMessage `json:"signal" validate:"required"`
}

// Outbound events.

type participantsEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type roomJoinedEvent struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	IsHost bool   `json:"isHost"`
}

type allUsersEvent struct {
	Type  string          `json:"type"`
	Users []domain.ConnID `json:"users"`
}

type userJoinedEvent struct {
	Type     string        `json:"type"`
	UserID   domain.ConnID `json:"userId"`
	Username string        `json:"username"`
}

type playbackEvent struct {
	Type        string  `json:"type"`
	CurrentTime float64 `json:"currentTime"`
}

type chatEvent struct {
	Type      string `json:"type"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type forwardEvent struct {
	Type   string          `json:"type"`
	From   domain.ConnID   `json:"from"`
	Signal json.RawMessage `json:"signal"`
}

type errorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}
