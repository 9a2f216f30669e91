package service

import (
	"sort"
	"sync"
	"time"

	"umbrella-customizer/models"
)

const (
	// DefaultNotificationTimeout is how long a notification stays visible
	DefaultNotificationTimeout = 5 * time.Second
	// DefaultNotificationExit is the length of the exit transition
	DefaultNotificationExit = 300 * time.Millisecond
)

type notificationEntry struct {
	notification models.Notification
	timer        *time.Timer
}

// Notifier keeps transient notifications. Each one is visible for the timeout,
// then leaving for the exit duration, then removed. Timers are cancellable.
type Notifier struct {
	mu      sync.Mutex
	visible time.Duration
	exit    time.Duration
	nextID  uint64
	entries map[uint64]*notificationEntry
	closed  bool
}

// NewNotifier creates a Notifier; non-positive durations fall back to the defaults
func NewNotifier(visible, exit time.Duration) *Notifier {
	if visible <= 0 {
		visible = DefaultNotificationTimeout
	}
	if exit < 0 {
		exit = DefaultNotificationExit
	}
	return &Notifier{
		visible: visible,
		exit:    exit,
		entries: make(map[uint64]*notificationEntry),
	}
}

// Notify shows message and schedules its dismissal
func (n *Notifier) Notify(message string) models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	entry := &notificationEntry{
		notification: models.Notification{
			ID:        n.nextID,
			Message:   message,
			Phase:     models.NotificationVisible,
			CreatedAt: time.Now(),
		},
	}
	if n.closed {
		return entry.notification
	}

	id := entry.notification.ID
	entry.timer = time.AfterFunc(n.visible, func() { n.startExit(id) })
	n.entries[id] = entry
	return entry.notification
}

func (n *Notifier) startExit(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry, ok := n.entries[id]
	if !ok {
		return
	}
	entry.notification.Phase = models.NotificationLeaving
	entry.timer = time.AfterFunc(n.exit, func() { n.remove(id) })
}

func (n *Notifier) remove(id uint64) {
	n.mu.Lock()
	delete(n.entries, id)
	n.mu.Unlock()
}

// Dismiss removes a notification right away
func (n *Notifier) Dismiss(id uint64) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	entry, ok := n.entries[id]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(n.entries, id)
	return true
}

// Active returns the current notifications, oldest first
func (n *Notifier) Active() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	active := make([]models.Notification, 0, len(n.entries))
	for _, entry := range n.entries {
		active = append(active, entry.notification)
	}
	sort.Slice(active, func(i, j int) bool { return active[i].ID < active[j].ID })
	return active
}

// Close stops every pending timer and drops all notifications
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, entry := range n.entries {
		entry.timer.Stop()
		delete(n.entries, id)
	}
	n.closed = true
}
