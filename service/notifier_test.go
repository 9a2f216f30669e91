package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"umbrella-customizer/models"
)

func TestNotifierLifecycle(t *testing.T) {
	n := NewNotifier(40*time.Millisecond, 40*time.Millisecond)
	defer n.Close()

	note := n.Notify("File size must be less than 5MB.")
	assert.Equal(t, models.NotificationVisible, note.Phase)

	active := n.Active()
	require.Len(t, active, 1)
	assert.Equal(t, note.ID, active[0].ID)

	assert.Eventually(t, func() bool {
		active := n.Active()
		return len(active) == 1 && active[0].Phase == models.NotificationLeaving
	}, time.Second, 2*time.Millisecond)

	assert.Eventually(t, func() bool { return len(n.Active()) == 0 }, time.Second, 2*time.Millisecond)
}

func TestNotifierKeepsOrder(t *testing.T) {
	n := NewNotifier(time.Minute, time.Second)
	defer n.Close()

	first := n.Notify("one")
	second := n.Notify("two")

	active := n.Active()
	require.Len(t, active, 2)
	assert.Equal(t, first.ID, active[0].ID)
	assert.Equal(t, second.ID, active[1].ID)
}

func TestNotifierDismiss(t *testing.T) {
	n := NewNotifier(time.Minute, time.Second)
	defer n.Close()

	note := n.Notify("bye")
	assert.True(t, n.Dismiss(note.ID))
	assert.False(t, n.Dismiss(note.ID))
	assert.Empty(t, n.Active())
}

func TestNotifierClose(t *testing.T) {
	n := NewNotifier(time.Minute, time.Second)
	n.Notify("pending")
	n.Close()

	assert.Empty(t, n.Active())
	n.Notify("after close")
	assert.Empty(t, n.Active())
}

func TestNotifierDefaults(t *testing.T) {
	n := NewNotifier(0, -1)
	defer n.Close()
	assert.Equal(t, DefaultNotificationTimeout, n.visible)
	assert.Equal(t, DefaultNotificationExit, n.exit)
}
