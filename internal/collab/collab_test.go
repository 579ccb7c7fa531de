package collab

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgscript/internal/auth"
	"github.com/inamate/svgscript/internal/document"
	"github.com/inamate/svgscript/internal/engine"
	"github.com/inamate/svgscript/internal/project"
)

const circleScript = `{"calls": [{"op": "circle", "center": [5, 5], "r": 2}]}`

type fixture struct {
	svc    *project.Service
	hub    *Hub
	server *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	eng := engine.New(engine.Page{Width: 20, Height: 20}, engine.WithRunPrefix("t"))
	svc := project.NewService(project.NewMemoryStore(), eng, 1<<16, logger)

	hub := NewHub(svc, logger)
	go hub.Run()

	r := mux.NewRouter()
	r.HandleFunc("/ws/preview/{drawingId}", NewHandler(hub, auth.NewService("", ""), "", logger).Preview)
	server := httptest.NewServer(r)

	t.Cleanup(func() {
		server.Close()
		hub.Stop()
	})
	return &fixture{svc: svc, hub: hub, server: server}
}

func (f *fixture) dial(t *testing.T, drawingID string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/preview/" + drawingID
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// readUntil returns the first message of type typ, skipping others.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) *Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "waiting for %s", typ)
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == typ {
			return &msg
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg, err := newMessage(typ, payload)
	require.NoError(t, err)
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, data))
}

func payload[T any](t *testing.T, msg *Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func TestPreviewRoom(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.Create(context.Background(), auth.Anonymous, "live", document.FormatJSON, []byte(circleScript))
	require.NoError(t, err)

	a := f.dial(t, d.ID)
	welcome := payload[WelcomePayload](t, readUntil(t, a, TypeWelcome))
	assert.Equal(t, auth.Anonymous, welcome.UserID)
	assert.NotEmpty(t, welcome.ClientID)

	state := readUntil(t, a, TypeDrawingState)
	assert.Equal(t, d.ID, state.DrawingID)
	snapshot := payload[RenderPayload](t, state)
	assert.Equal(t, 1, snapshot.Version)
	assert.Contains(t, snapshot.SVG, "<circle")

	b := f.dial(t, d.ID)
	members := payload[PresenceStatePayload](t, readUntil(t, b, TypePresenceState))
	assert.Len(t, members.Members, 2)
	joined := payload[Member](t, readUntil(t, a, TypePresenceJoin))
	assert.NotEqual(t, welcome.ClientID, joined.ClientID)

	send(t, a, TypeScriptSubmit, ScriptSubmitPayload{
		RequestID: "r1",
		Format:    document.FormatTOML,
		Script:    "[[calls]]\nop = \"rect\"\npt1 = [0, 0]\npt2 = [4, 4]\n",
	})
	for _, conn := range []*websocket.Conn{a, b} {
		msg := readUntil(t, conn, TypeRenderResult)
		assert.Equal(t, int64(2), msg.Seq)
		assert.Equal(t, welcome.ClientID, msg.ClientID)
		res := payload[RenderPayload](t, msg)
		assert.Equal(t, "r1", res.RequestID)
		assert.Equal(t, document.FormatTOML, res.Format)
		assert.Contains(t, res.SVG, "<rect")
		assert.Empty(t, res.Problems)
	}

	stored, err := f.svc.Get(context.Background(), d.ID, auth.Anonymous)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)

	b.Close(websocket.StatusNormalClosure, "")
	left := payload[Member](t, readUntil(t, a, TypePresenceLeave))
	assert.Equal(t, joined.ClientID, left.ClientID)
}

func TestPreviewSubmitErrors(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.Create(context.Background(), auth.Anonymous, "live", document.FormatJSON, []byte(circleScript))
	require.NoError(t, err)

	conn := f.dial(t, d.ID)
	readUntil(t, conn, TypeDrawingState)

	send(t, conn, TypeScriptSubmit, ScriptSubmitPayload{RequestID: "bad", Script: `{"calls": []}`})
	failed := payload[RenderErrorPayload](t, readUntil(t, conn, TypeRenderError))
	assert.Equal(t, "bad", failed.RequestID)
	assert.Contains(t, failed.Reason, "invalid script")

	send(t, conn, TypeScriptSubmit, ScriptSubmitPayload{Script: `{"calls": [{"op": "polygon"}]}`})
	res := payload[RenderPayload](t, readUntil(t, conn, TypeRenderResult))
	require.Len(t, res.Problems, 1)
	assert.Equal(t, "polygon", res.Problems[0].Op)

	send(t, conn, "cursor.move", map[string]int{"x": 1})
	unknown := payload[ErrorPayload](t, readUntil(t, conn, TypeError))
	assert.Contains(t, unknown.Reason, "cursor.move")
}

func TestPreviewRejectsBeforeUpgrade(t *testing.T) {
	f := newFixture(t)
	d, err := f.svc.Create(context.Background(), "someone-else", "private", document.FormatJSON, []byte(circleScript))
	require.NoError(t, err)

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"missing drawing", "drw_missing", http.StatusNotFound},
		{"other owner", d.ID, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws/preview/" + tt.id
			_, resp, err := websocket.Dial(ctx, url, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestOriginPatterns(t *testing.T) {
	assert.Equal(t, []string{"localhost:5173", "example.com"}, originPatterns("http://localhost:5173, https://example.com,"))
	assert.Nil(t, originPatterns(""))
}

type panickingDrawings struct{}

func (panickingDrawings) Get(context.Context, string, string) (*project.Drawing, error) {
	return nil, project.ErrNotFound
}

func (panickingDrawings) Update(context.Context, string, string, string, document.Format, []byte) (*project.Drawing, error) {
	panic("store exploded")
}

func TestHandlerPanicAnswersRenderError(t *testing.T) {
	hub := NewHub(panickingDrawings{}, slog.New(slog.DiscardHandler))
	c := NewClient(hub, nil, "u1", "d1", "c1", nil)

	msg, err := newMessage(TypeScriptSubmit, ScriptSubmitPayload{RequestID: "r1", Script: circleScript})
	require.NoError(t, err)
	require.NotPanics(t, func() { hub.handleMessage(context.Background(), c, msg) })

	require.Len(t, c.send, 1)
	var out Message
	require.NoError(t, json.Unmarshal(<-c.send, &out))
	assert.Equal(t, TypeRenderError, out.Type)
	assert.Equal(t, "internal error", payload[RenderErrorPayload](t, &out).Reason)
}
