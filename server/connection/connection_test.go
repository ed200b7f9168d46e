package connection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, m *Manager, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return m.Count() == want }, time.Second, 5*time.Millisecond)
}

func TestManager(t *testing.T) {
	m := NewManager()
	go m.Start()
	defer m.Stop()

	a := NewClient("a", nil)
	b := NewClient("b", nil)
	m.Register <- a
	m.Register <- b
	waitForCount(t, m, 2)

	t.Run("broadcast reaches everyone", func(t *testing.T) {
		assert.Equal(t, 2, m.Broadcast([]byte("hi")))
		assert.Equal(t, []byte("hi"), <-a.Send)
		assert.Equal(t, []byte("hi"), <-b.Send)
	})

	t.Run("send to one client", func(t *testing.T) {
		assert.True(t, m.SendToClient("a", []byte("only a")))
		assert.Equal(t, []byte("only a"), <-a.Send)
		assert.Empty(t, b.Send)

		assert.False(t, m.SendToClient("nobody", []byte("lost")))
	})

	t.Run("unregister closes the queue", func(t *testing.T) {
		m.Unregister <- a
		waitForCount(t, m, 1)

		_, open := <-a.Send
		assert.False(t, open)
		assert.Equal(t, 1, m.Broadcast([]byte("after")))
	})
}

func TestManager_SlowClient(t *testing.T) {
	m := NewManager()
	go m.Start()
	defer m.Stop()

	slow := &Client{ID: "slow", Send: make(chan []byte, 1)}
	m.Register <- slow
	waitForCount(t, m, 1)

	assert.Equal(t, 1, m.Broadcast([]byte("one")))
	assert.Equal(t, 0, m.Broadcast([]byte("two")), "a full queue does not block the broadcaster")
}

func TestManager_Stop(t *testing.T) {
	m := NewManager()
	done := make(chan struct{})
	go func() {
		m.Start()
		close(done)
	}()

	c := NewClient("c", nil)
	m.Register <- c
	waitForCount(t, m, 1)

	m.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after Stop")
	}

	_, open := <-c.Send
	assert.False(t, open)
	assert.Equal(t, 0, m.Count())
}

func TestManager_JoinLeaveAfterStop(t *testing.T) {
	m := NewManager()
	stopped := make(chan struct{})
	go func() {
		m.Start()
		close(stopped)
	}()
	c := NewClient("late", nil)

	assert.True(t, m.Join(c))
	waitForCount(t, m, 1)
	m.Stop()
	m.Stop()
	<-stopped

	later := NewClient("later", nil)
	joined := make(chan bool, 1)
	go func() {
		m.Leave(c)
		joined <- m.Join(later)
	}()

	select {
	case ok := <-joined:
		assert.False(t, ok, "a stopped manager refuses new clients")
	case <-time.After(time.Second):
		t.Fatal("Join/Leave blocked on a stopped manager")
	}

	// the refused client's queue is closed so its writer can finish
	select {
	case _, open := <-later.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("refused client's queue left open")
	}
}
