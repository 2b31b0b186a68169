package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Alia5/motionemu/controls"
	"github.com/Alia5/motionemu/device/wiimote"
	"github.com/Alia5/motionemu/motion"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restingFrame(tick uint64) Frame {
	w := wiimote.New(controls.NewBank(), controls.NewInputSet(), nil)
	w.Step(1.0 / 200)
	return NewFrame(tick, time.Duration(tick)*5*time.Millisecond, w.Snapshot())
}

func TestNewFrame(t *testing.T) {
	f := restingFrame(3)
	assert.Equal(t, uint64(3), f.Tick)
	assert.InDelta(t, 0.015, f.Time, 1e-12)
	assert.Equal(t, "31000080809a", f.Report)
	assert.Equal(t, motion.AccelData{X: 0x200, Y: 0x200, Z: 0x268}, f.Accel)
}

func TestWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatAuto)
	require.NoError(t, err)

	require.NoError(t, w.Write(restingFrame(1)))
	require.NoError(t, w.Write(restingFrame(2)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &decoded))
	assert.Equal(t, 2.0, decoded["tick"])
	assert.Contains(t, decoded, "state")
}

func TestWriterTable(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, FormatTable)
	require.NoError(t, err)

	require.NoError(t, w.Write(restingFrame(1)))
	require.NoError(t, w.Write(restingFrame(2)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "report")
	assert.Contains(t, lines[2], "31000080809a")
}

func TestWriterRejectsUnknownFormat(t *testing.T) {
	_, err := NewWriter(io.Discard, "csv")
	assert.Error(t, err)
}

type stubSink struct {
	frames []Frame
	err    error
	closed bool
}

func (s *stubSink) Write(f Frame) error {
	s.frames = append(s.frames, f)
	return s.err
}

func (s *stubSink) Close() error {
	s.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a := &stubSink{}
	b := &stubSink{err: boom}
	m := Multi{a, b}

	err := m.Write(restingFrame(1))
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.frames, 1)
	assert.Len(t, b.frames, 1)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestMonitorStreamsFrames(t *testing.T) {
	m := NewMonitor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(m)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return m.Clients() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Write(restingFrame(9)))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	assert.Equal(t, uint64(9), f.Tick)
	assert.Equal(t, "31000080809a", f.Report)

	require.NoError(t, m.Close())
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestMonitorDropsForSlowClients(t *testing.T) {
	m := NewMonitor(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c := &monitorClient{send: make(chan []byte, 1)}
	m.clients[c] = struct{}{}

	require.NoError(t, m.Write(restingFrame(1)))
	require.NoError(t, m.Write(restingFrame(2)))
	assert.Equal(t, uint64(1), m.Dropped())
}

type fakeToken struct {
	mqtt.Token
	err     error
	timeout bool
}

func (t *fakeToken) WaitTimeout(time.Duration) bool { return !t.timeout }
func (t *fakeToken) Wait() bool                     { return true }
func (t *fakeToken) Error() error                   { return t.err }

type fakeClient struct {
	mqtt.Client
	token        *fakeToken
	topic        string
	qos          byte
	payload      []byte
	disconnected bool
}

func (c *fakeClient) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	c.topic = topic
	c.qos = qos
	c.payload = payload.([]byte)
	return c.token
}

func (c *fakeClient) Disconnect(uint) { c.disconnected = true }

func TestMQTTPublishes(t *testing.T) {
	client := &fakeClient{token: &fakeToken{}}
	s := NewMQTT(client, "", 1)

	require.NoError(t, s.Write(restingFrame(4)))
	assert.Equal(t, DefaultTopic, client.topic)
	assert.Equal(t, byte(1), client.qos)

	var f Frame
	require.NoError(t, json.Unmarshal(client.payload, &f))
	assert.Equal(t, uint64(4), f.Tick)

	require.NoError(t, s.Close())
	assert.True(t, client.disconnected)
}

func TestMQTTErrors(t *testing.T) {
	type testCase struct {
		name  string
		token *fakeToken
	}

	cases := []testCase{
		{name: "timeout", token: &fakeToken{timeout: true}},
		{name: "broker error", token: &fakeToken{err: errors.New("not authorized")}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewMQTT(&fakeClient{token: c.token}, "t", 0)
			assert.Error(t, s.Write(restingFrame(1)))
		})
	}
}
