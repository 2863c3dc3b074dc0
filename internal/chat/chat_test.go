// Geochat - Proximity Chat Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/geochat

package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/geochat/internal/geo"
	"github.com/tomtom215/geochat/internal/logging"
	"github.com/tomtom215/geochat/internal/models"
	"github.com/tomtom215/geochat/internal/protocol"
	"github.com/tomtom215/geochat/internal/registry"
)

func TestMain(m *testing.M) {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
	os.Exit(m.Run())
}

var peerSeq atomic.Uint64

// frame is a decoded outbound frame.
type frame struct {
	Type     string               `json:"type"`
	ClientID string               `json:"client_id"`
	Message  json.RawMessage      `json:"message"`
	Users    []models.NearbyUser  `json:"users"`
	Messages []models.ChatMessage `json:"messages"`
}

func (f frame) chatMessage(t *testing.T) models.ChatMessage {
	t.Helper()
	var m models.ChatMessage
	if err := json.Unmarshal(f.Message, &m); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	return m
}

func (f frame) errorText(t *testing.T) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(f.Message, &s); err != nil {
		t.Fatalf("decode error message: %v", err)
	}
	return s
}

type recordingPeer struct {
	id     uint64
	mu     sync.Mutex
	frames []frame
	fail   error
}

func newRecordingPeer() *recordingPeer {
	return &recordingPeer{id: peerSeq.Add(1)}
}

func (p *recordingPeer) ID() uint64 { return p.id }

func (p *recordingPeer) Send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}

	var data []byte
	if raw, ok := v.(protocol.Raw); ok {
		data = raw
	} else {
		var err error
		if data, err = protocol.Encode(v); err != nil {
			return err
		}
	}
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	p.frames = append(p.frames, f)
	return nil
}

func (p *recordingPeer) take() []frame {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := p.frames
	p.frames = nil
	return out
}

func (p *recordingPeer) setFail(err error) {
	p.mu.Lock()
	p.fail = err
	p.mu.Unlock()
}

type fixture struct {
	t   *testing.T
	svc *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	clock := WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000) })
	return &fixture{
		t:   t,
		svc: NewService(registry.New(geo.NewRadius(1000)), append([]Option{clock}, opts...)...),
	}
}

type client struct {
	t    *testing.T
	conn *Conn
	peer *recordingPeer
	id   string
}

func (f *fixture) open() *client {
	peer := newRecordingPeer()
	conn := f.svc.NewConn(peer)
	conn.Open()
	return &client{t: f.t, conn: conn, peer: peer}
}

func (c *client) send(format string, args ...any) error {
	return c.conn.HandleFrame(context.Background(), []byte(fmt.Sprintf(format, args...)))
}

func (c *client) mustSend(format string, args ...any) []frame {
	c.t.Helper()
	if err := c.send(format, args...); err != nil {
		c.t.Fatalf("HandleFrame(%s) = %v", fmt.Sprintf(format, args...), err)
	}
	return c.peer.take()
}

func (c *client) connect(username string, lat, lon float64) {
	c.t.Helper()
	frames := c.mustSend(`{"type":"connect","username":%q,"lat":%v,"lon":%v}`, username, lat, lon)
	if len(frames) != 1 || frames[0].Type != "connected" || frames[0].ClientID == "" {
		c.t.Fatalf("connect reply = %+v", frames)
	}
	c.id = frames[0].ClientID
}

func (c *client) say(content string, lat, lon float64) []frame {
	c.t.Helper()
	return c.mustSend(`{"type":"sent_message","client_id":%q,"content":%q,"lat":%v,"lon":%v}`, c.id, content, lat, lon)
}

// findSession reports the session for id as seen from a point near it.
func findSession(reg *registry.Registry, id models.ClientID, near geo.Point) (models.NearbyUser, bool) {
	for _, u := range reg.UsersInRange(near, "") {
		if u.ClientID == id {
			return u, true
		}
	}
	return models.NearbyUser{}, false
}

func TestConnectReusesClientID(t *testing.T) {
	f := newFixture(t)
	a := f.open()
	a.connect("alice", 0, 0)

	b := f.open()
	b.connect("alice", 0, 0.001)

	if a.id != b.id {
		t.Errorf("same username got different ids: %s vs %s", a.id, b.id)
	}
	if got := f.svc.Stats().Sessions; got != 1 {
		t.Errorf("Sessions = %d, want 1", got)
	}
}

func TestScenarioBroadcastWithinRadius(t *testing.T) {
	f := newFixture(t)
	alice, bob, carol := f.open(), f.open(), f.open()
	alice.connect("alice", 0, 0)
	bob.connect("bob", 0, 0.005)
	carol.connect("carol", 0, 1.0)

	if frames := alice.say("hi", 0, 0); len(frames) != 0 {
		t.Errorf("sender received %d frames, want none: %+v", len(frames), frames)
	}

	bobFrames := bob.peer.take()
	if len(bobFrames) != 1 || bobFrames[0].Type != "new_message" {
		t.Fatalf("bob frames = %+v", bobFrames)
	}
	msg := bobFrames[0].chatMessage(t)
	if msg.Content != "hi" || msg.Username != "alice" || msg.ClientID != models.ClientID(alice.id) {
		t.Errorf("bob received %+v", msg)
	}
	if msg.Timestamp != 1_700_000_000_000 {
		t.Errorf("timestamp = %d", msg.Timestamp)
	}

	if frames := carol.peer.take(); len(frames) != 0 {
		t.Errorf("carol (111 km) received %+v", frames)
	}

	frames := alice.mustSend(`{"type":"sent_location","client_id":%q,"lat":0,"lon":0}`, alice.id)
	if len(frames) != 1 || frames[0].Type != "users_in_range" {
		t.Fatalf("sent_location reply = %+v", frames)
	}
	users := frames[0].Users
	if len(users) != 1 || users[0].Username != "bob" {
		t.Errorf("users_in_range = %+v, want only bob", users)
	}
}

func TestUpdateUserIncludesCaller(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.open(), f.open()
	alice.connect("alice", 0, 0)
	bob.connect("bob", 0, 0.005)

	frames := alice.mustSend(`{"type":"update_user","client_id":%q,"username":"alicia","lat":0,"lon":0}`, alice.id)
	if len(frames) != 1 || frames[0].Type != "users_in_range" {
		t.Fatalf("reply = %+v", frames)
	}
	names := map[string]bool{}
	for _, u := range frames[0].Users {
		names[u.Username] = true
	}
	if !names["alicia"] || !names["bob"] || len(names) != 2 {
		t.Errorf("users = %+v, want alicia and bob", frames[0].Users)
	}
}

func TestUnknownClientAutoCreated(t *testing.T) {
	f := newFixture(t)
	c := f.open()

	frames := c.mustSend(`{"type":"sent_location","client_id":"stale-id","lat":0,"lon":0}`)
	if len(frames) != 1 || frames[0].Type != "users_in_range" || len(frames[0].Users) != 0 {
		t.Fatalf("reply = %+v", frames)
	}
	u, ok := findSession(f.svc.Registry(), "stale-id", geo.Point{})
	if !ok || u.Username != registry.UnknownUsername {
		t.Errorf("session = %+v, ok=%v", u, ok)
	}

	c.conn.Close()
	if _, ok := findSession(f.svc.Registry(), "stale-id", geo.Point{}); ok {
		t.Error("auto-created session not released on close")
	}
}

func TestHistoryAfterDisconnect(t *testing.T) {
	f := newFixture(t)
	alice := f.open()
	alice.connect("alice", 0, 0)
	alice.say("hello from alice", 0, 0)

	if frames := alice.mustSend(`{"type":"disconnect","client_id":%q}`, alice.id); len(frames) != 0 {
		t.Errorf("disconnect replied %+v", frames)
	}
	if alice.conn.State() != StateOpen {
		t.Error("disconnect event must not close the connection")
	}

	dave := f.open()
	dave.connect("dave", 0, 0)
	frames := dave.mustSend(`{"type":"get_history_messages","client_id":%q,"lat":0,"lon":0}`, dave.id)
	if len(frames) != 1 || frames[0].Type != "messages_history" {
		t.Fatalf("reply = %+v", frames)
	}
	if len(frames[0].Messages) != 1 || frames[0].Messages[0].Content != "hello from alice" {
		t.Errorf("history = %+v", frames[0].Messages)
	}

	far := dave.mustSend(`{"type":"get_history_messages","client_id":%q,"lat":10,"lon":10}`, dave.id)
	if len(far) != 1 || far[0].Messages == nil || len(far[0].Messages) != 0 {
		t.Errorf("far history = %+v, want empty list", far)
	}
}

func TestDisconnectedClientCannotSend(t *testing.T) {
	f := newFixture(t)
	alice := f.open()
	alice.connect("alice", 0, 0)
	alice.mustSend(`{"type":"disconnect","client_id":%q}`, alice.id)

	frames := alice.say("anyone?", 0, 0)
	if len(frames) != 1 || frames[0].Type != "error" || frames[0].errorText(t) != "Client not found" {
		t.Errorf("reply = %+v", frames)
	}
	if f.svc.Stats().Messages != 0 {
		t.Error("message stored for unknown client")
	}
}

func TestMissingContent(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.open(), f.open()
	alice.connect("alice", 0, 0)
	bob.connect("bob", 0, 0.005)

	frames := alice.mustSend(`{"type":"sent_message","client_id":%q,"lat":0,"lon":0}`, alice.id)
	if len(frames) != 1 || frames[0].Type != "error" || frames[0].errorText(t) != "Missing content" {
		t.Fatalf("reply = %+v", frames)
	}
	if f.svc.Stats().Messages != 0 {
		t.Error("message appended despite missing content")
	}
	if got := bob.peer.take(); len(got) != 0 {
		t.Errorf("bob received %+v", got)
	}
}

func TestRecoverableErrors(t *testing.T) {
	f := newFixture(t)
	c := f.open()

	tests := []struct {
		frame string
		want  string
	}{
		{`{"type":"fly"}`, "Unknown message type: fly"},
		{`{"type":"connect","lat":0,"lon":0}`, "Missing username"},
		{`{"type":"get_history_messages","lat":0,"lon":0}`, "Missing client_id"},
		{`{"type":"sent_location","client_id":"x","lat":100,"lon":0}`, "Invalid lat"},
	}
	for _, tt := range tests {
		frames := c.mustSend("%s", tt.frame)
		if len(frames) != 1 || frames[0].Type != "error" || frames[0].errorText(t) != tt.want {
			t.Errorf("%s: reply = %+v, want error %q", tt.frame, frames, tt.want)
		}
	}
	if c.conn.State() != StateOpen {
		t.Error("recoverable errors closed the connection")
	}
}

func TestDecodeErrorIsFatal(t *testing.T) {
	f := newFixture(t)
	c := f.open()

	err := c.send("{not json")
	if err == nil || !protocol.IsFatal(err) {
		t.Fatalf("HandleFrame = %v, want fatal error", err)
	}
	frames := c.peer.take()
	if len(frames) != 1 || frames[0].Type != "error" {
		t.Errorf("expected best-effort error frame, got %+v", frames)
	}
}

func TestReplyFailureIsFatalAndCleansUp(t *testing.T) {
	f := newFixture(t)
	c := f.open()
	c.peer.setFail(protocol.ErrPeerClosed)

	err := c.send(`{"type":"connect","username":"alice","lat":0,"lon":0}`)
	var transportErr *protocol.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("HandleFrame = %v, want TransportError", err)
	}
	if f.svc.Stats().Sessions != 0 {
		t.Error("session left behind after failed connected reply")
	}
}

func TestBroadcastSkipsFailingRecipient(t *testing.T) {
	f := newFixture(t)
	alice, bob, eve := f.open(), f.open(), f.open()
	alice.connect("alice", 0, 0)
	bob.connect("bob", 0, 0.001)
	eve.connect("eve", 0, 0.002)
	eve.peer.setFail(protocol.ErrSendBufferFull)

	alice.say("hi", 0, 0)

	if got := bob.peer.take(); len(got) != 1 {
		t.Errorf("bob got %d frames, want 1", len(got))
	}
}

func TestCloseReleasesOnlyOwnedSessions(t *testing.T) {
	f := newFixture(t)
	first := f.open()
	first.connect("alice", 0, 0)
	second := f.open()
	second.connect("alice", 0, 0)

	first.conn.Close()
	if _, ok := findSession(f.svc.Registry(), models.ClientID(second.id), geo.Point{}); !ok {
		t.Fatal("closing the stale connection removed the newer session")
	}

	second.conn.Close()
	second.conn.Close()
	if f.svc.Stats().Sessions != 0 {
		t.Error("session not released when owning connection closed")
	}
	if err := second.send(`{"type":"fly"}`); !errors.Is(err, ErrConnClosed) {
		t.Errorf("HandleFrame after Close = %v, want ErrConnClosed", err)
	}
}

type capturePublisher struct {
	mu   sync.Mutex
	msgs []models.ChatMessage
	err  error
}

func (p *capturePublisher) Publish(_ context.Context, m models.ChatMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, m)
	return p.err
}

func (p *capturePublisher) Close() error { return nil }

func TestMessagesAreExported(t *testing.T) {
	pub := &capturePublisher{err: errors.New("broker down")}
	f := newFixture(t, WithPublisher(pub))
	alice := f.open()
	alice.connect("alice", 0, 0)

	// Export failures never surface to the sender.
	if frames := alice.say("archived", 0, 0); len(frames) != 0 {
		t.Errorf("sender got %+v", frames)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.msgs) != 1 || pub.msgs[0].Content != "archived" {
		t.Errorf("exported %+v", pub.msgs)
	}
}

func TestStateTransitions(t *testing.T) {
	f := newFixture(t)
	conn := f.svc.NewConn(newRecordingPeer())

	if conn.State() != StateConnecting {
		t.Fatalf("initial state = %s", conn.State())
	}
	if err := conn.HandleFrame(context.Background(), []byte(`{"type":"fly"}`)); !errors.Is(err, ErrConnClosed) {
		t.Errorf("HandleFrame before Open = %v", err)
	}
	conn.Open()
	if conn.State() != StateOpen {
		t.Errorf("state after Open = %s", conn.State())
	}
	conn.Close()
	conn.Open()
	if conn.State() != StateClosed {
		t.Errorf("Open after Close changed state to %s", conn.State())
	}
}
