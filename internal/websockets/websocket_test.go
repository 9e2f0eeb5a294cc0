package websockets

import (
	"errors"
	"sync"
	"testing"
	"time"

	"mygamelist/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	inbound  chan Message
	written  chan Message
	closed   chan struct{}
	closeOne sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan Message, 4),
		written: make(chan Message, 16),
		closed:  make(chan struct{}),
	}
}

func (f *fakeConn) SetReadLimit(int64) {}
func (f *fakeConn) SetReadDeadline(time.Time) error { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}
func (f *fakeConn) WriteMessage(int, []byte) error { return nil }

func (f *fakeConn) ReadJSON(v any) error {
	select {
	case msg := <-f.inbound:
		*(v.(*Message)) = msg
		return nil
	case <-f.closed:
		return errors.New("connection closed")
	}
}

func (f *fakeConn) WriteJSON(v any) error {
	f.written <- v.(Message)
	return nil
}

func (f *fakeConn) Close() error {
	f.closeOne.Do(func() { close(f.closed) })
	return nil
}

func waitForMessage(t *testing.T, conn *fakeConn) Message {
	t.Helper()
	select {
	case msg := <-conn.written:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message written")
		return Message{}
	}
}

func TestManager_BroadcastsCatalogEvents(t *testing.T) {
	bus := events.New(nil)
	defer bus.Close()

	manager, err := New(bus)
	require.NoError(t, err)

	conn := newFakeConn()
	finished := make(chan struct{})
	go func() {
		manager.HandleWebSocket(conn, uuid.New())
		close(finished)
	}()

	require.Eventually(t, func() bool { return manager.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	gameID := uuid.New()
	require.NoError(t, bus.PublishGameEvent(events.GAME_UPDATED, gameID, "Celeste"))

	msg := waitForMessage(t, conn)
	assert.Equal(t, "game_updated", msg.Type)
	assert.Equal(t, gameID.String(), msg.Data["id"])
	assert.False(t, msg.Timestamp.IsZero())

	conn.Close()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("handler did not return after the connection closed")
	}
	assert.Eventually(t, func() bool { return manager.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestManager_AnswersApplicationPing(t *testing.T) {
	manager, err := New(events.New(nil))
	require.NoError(t, err)

	conn := newFakeConn()
	go manager.HandleWebSocket(conn, uuid.New())
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	conn.inbound <- Message{Type: MESSAGE_TYPE_PING}

	msg := waitForMessage(t, conn)
	assert.Equal(t, MESSAGE_TYPE_PONG, msg.Type)
}

func TestManager_UnregisterTwiceIsSafe(t *testing.T) {
	manager, err := New(events.New(nil))
	require.NoError(t, err)

	client := &Client{ID: "c1", send: make(chan Message, 1), done: make(chan struct{})}
	manager.registerClient(client)

	manager.unregisterClient(client)
	assert.NotPanics(t, func() { manager.unregisterClient(client) })
	assert.False(t, manager.sendTo(client, Message{Type: "late"}))
}
