package collab

import (
	"encoding/json"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	DrawingID string          `json:"drawingId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	TypePresenceState = "presence.state"
	TypePresenceJoin  = "presence.join"
	TypePresenceLeave = "presence.leave"

	// Current drawing, sent once on join.
	TypeDrawingState = "drawing.state"

	TypeScriptSubmit = "script.submit"
	TypeRenderResult = "render.result"
	TypeRenderError  = "render.error"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

// Member is one connected client of a room.
type Member struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type PresenceStatePayload struct {
	Members []Member `json:"members"`
}

// ScriptSubmitPayload replaces the drawing's script. Format defaults to JSON.
type ScriptSubmitPayload struct {
	RequestID string          `json:"requestId,omitempty"`
	Format    document.Format `json:"format,omitempty"`
	Script    string          `json:"script"`
}

// RenderPayload carries a drawing's script and render, for drawing.state
// and render.result.
type RenderPayload struct {
	RequestID string           `json:"requestId,omitempty"`
	Version   int              `json:"version"`
	Format    document.Format  `json:"format"`
	Script    string           `json:"script"`
	SVG       string           `json:"svg"`
	Problems  []engine.Problem `json:"problems"`
}

type RenderErrorPayload struct {
	RequestID string `json:"requestId,omitempty"`
	Reason    string `json:"reason"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
