package collab

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
	"github.com/inamate/svgscript/internal/project"
)

// Drawings is the part of the drawing service the hub renders through.
// *project.Service satisfies it.
type Drawings interface {
	Get(ctx context.Context, id, ownerID string) (*project.Drawing, error)
	Update(ctx context.Context, id, ownerID, name string, format document.Format, script []byte) (*project.Drawing, error)
}

type Room struct {
	drawingID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
}

func NewRoom(drawingID string) *Room {
	return &Room{
		drawingID: drawingID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
	}
}

// Hub fans render results out to every client previewing the same drawing.
type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // drawingID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	drawings Drawings
	logger   *slog.Logger
}

func NewHub(drawings Drawings, logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		drawings:   drawings,
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			h.closeAll()
			return
		}
	}
}

// Stop ends Run and closes every client's send queue.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.closeSend()
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Members lists the clients connected to a drawing.
func (h *Hub) Members(drawingID string) []Member {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	if !ok {
		return nil
	}
	return room.presence.Members()
}

func (h *Hub) addClient(client *Client) {
	member := Member{ClientID: client.ClientID, UserID: client.UserID}

	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok {
		room = NewRoom(client.DrawingID)
		h.rooms[client.DrawingID] = room
	}
	room.clients[client.ClientID] = client
	room.presence.Add(member)
	h.mu.Unlock()

	if msg, err := newMessage(TypeWelcome, WelcomePayload{ClientID: client.ClientID, UserID: client.UserID}); err == nil {
		client.Send(msg)
	}
	if msg, err := room.presence.StateMessage(); err == nil {
		client.Send(msg)
	}
	if client.initial != nil {
		client.Send(renderMessage(TypeDrawingState, client.initial, ""))
	}

	if msg, err := newMessage(TypePresenceJoin, member); err == nil {
		msg.UserID = client.UserID
		h.broadcastToRoom(client.DrawingID, msg, client.ClientID)
	}

	h.logger.Info("client joined", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DrawingID]
	if !ok || room.clients[client.ClientID] != client {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	client.closeSend()
	room.presence.Remove(client.ClientID)

	if len(room.clients) == 0 {
		delete(h.rooms, client.DrawingID)
	}
	h.mu.Unlock()

	if msg, err := newMessage(TypePresenceLeave, Member{ClientID: client.ClientID, UserID: client.UserID}); err == nil {
		msg.UserID = client.UserID
		h.broadcastToRoom(client.DrawingID, msg, "")
	}

	h.logger.Info("client left", "user", client.UserID, "drawing", client.DrawingID)
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, room := range h.rooms {
		for _, c := range room.clients {
			c.closeSend()
		}
		delete(h.rooms, id)
	}
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	defer func() {
		if p := recover(); p != nil {
			h.logger.Error("message handler panicked", "panic", p, "type", msg.Type, "user", sender.UserID)
			h.sendRenderError(sender, "", "internal error")
		}
	}()

	switch msg.Type {
	case TypeScriptSubmit:
		h.handleScriptSubmit(ctx, sender, msg)
	default:
		h.logger.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
		if out, err := newMessage(TypeError, ErrorPayload{Reason: "unknown message type " + msg.Type}); err == nil {
			sender.Send(out)
		}
	}
}

// handleScriptSubmit stores and renders the submitted script. Every client
// in the room receives the result; failures go back to the sender only.
func (h *Hub) handleScriptSubmit(ctx context.Context, sender *Client, msg *Message) {
	var submit ScriptSubmitPayload
	if err := decodePayload(msg, &submit); err != nil {
		h.sendRenderError(sender, "", "invalid submit payload")
		return
	}
	format := submit.Format
	if format == "" {
		format = document.FormatJSON
	}

	d, err := h.drawings.Update(ctx, sender.DrawingID, sender.UserID, "", format, []byte(submit.Script))
	switch {
	case err == nil:
	case errors.Is(err, project.ErrInvalid), errors.Is(err, project.ErrNotFound), errors.Is(err, project.ErrForbidden):
		h.sendRenderError(sender, submit.RequestID, err.Error())
		return
	default:
		h.logger.Error("render submitted script", "error", err, "drawing", sender.DrawingID)
		h.sendRenderError(sender, submit.RequestID, "internal error")
		return
	}

	out := renderMessage(TypeRenderResult, d, submit.RequestID)
	out.UserID = sender.UserID
	out.ClientID = sender.ClientID
	h.broadcastToRoom(sender.DrawingID, out, "")
}

func (h *Hub) sendRenderError(c *Client, requestID, reason string) {
	if msg, err := newMessage(TypeRenderError, RenderErrorPayload{RequestID: requestID, Reason: reason}); err == nil {
		c.Send(msg)
	}
}

func renderMessage(typ string, d *project.Drawing, requestID string) *Message {
	problems := d.Problems
	if problems == nil {
		problems = []engine.Problem{}
	}
	msg, err := newMessage(typ, RenderPayload{
		RequestID: requestID,
		Version:   d.Version,
		Format:    d.Format,
		Script:    d.Script,
		SVG:       d.SVG,
		Problems:  problems,
	})
	if err != nil {
		msg = &Message{Type: typ}
	}
	msg.DrawingID = d.ID
	msg.Seq = int64(d.Version)
	return msg
}

func (h *Hub) broadcastToRoom(drawingID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[drawingID]
	if !ok {
		return
	}
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
