package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/techmart/internal/core/domain"
)

const (
	defaultNotificationDisplay = 4 * time.Second
	defaultNotificationExit    = 300 * time.Millisecond
)

// Notifier shows a transient message to the shopper of a session.
type Notifier interface {
	Notify(sessionID, message string, kind domain.NotificationType) domain.Notification
}

type NotificationOption func(*NotificationCenter)

func WithDisplayDuration(d time.Duration) NotificationOption {
	return func(c *NotificationCenter) { c.display = d }
}

func WithExitDuration(d time.Duration) NotificationOption {
	return func(c *NotificationCenter) { c.exit = d }
}

func WithNotificationLogger(logger *zap.Logger) NotificationOption {
	return func(c *NotificationCenter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

type toast struct {
	notification domain.Notification
	timer        *time.Timer
}

type notificationFeed struct {
	region *LiveRegion
	toasts []*toast
}

// NotificationCenter keeps the toast stack and live region of every page session.
// Toasts stack without collision avoidance and dismiss themselves after display+exit.
type NotificationCenter struct {
	display time.Duration
	exit    time.Duration
	logger  *zap.Logger

	mu    sync.Mutex
	feeds map[string]*notificationFeed
}

func NewNotificationCenter(opts ...NotificationOption) *NotificationCenter {
	c := &NotificationCenter{
		display: defaultNotificationDisplay,
		exit:    defaultNotificationExit,
		logger:  zap.NewNop(),
		feeds:   make(map[string]*notificationFeed),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NotificationCenter) Notify(sessionID, message string, kind domain.NotificationType) domain.Notification {
	kind = domain.ParseNotificationType(string(kind))
	n := domain.Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Type:      kind,
		Color:     kind.Color(),
		State:     domain.NotificationVisible,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	feed, ok := c.feeds[sessionID]
	if !ok {
		c.mu.Unlock()
		c.logger.Debug("notification dropped for closed session",
			zap.String("session_id", sessionID),
			zap.String("message", message),
		)
		return n
	}
	t := &toast{notification: n}
	t.timer = time.AfterFunc(c.display, func() { c.beginExit(sessionID, n.ID) })
	feed.toasts = append(feed.toasts, t)
	region := feed.region
	c.mu.Unlock()

	region.Announce(message)
	c.logger.Debug("notification shown",
		zap.String("session_id", sessionID),
		zap.String("type", string(kind)),
		zap.String("message", message),
	)
	return n
}

func (c *NotificationCenter) beginExit(sessionID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	feed, ok := c.feeds[sessionID]
	if !ok {
		return
	}
	for _, t := range feed.toasts {
		if t.notification.ID == id {
			t.notification.State = domain.NotificationExiting
			t.timer = time.AfterFunc(c.exit, func() { c.remove(sessionID, id) })
			return
		}
	}
}

func (c *NotificationCenter) remove(sessionID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	feed, ok := c.feeds[sessionID]
	if !ok {
		return
	}
	for i, t := range feed.toasts {
		if t.notification.ID == id {
			feed.toasts = append(feed.toasts[:i], feed.toasts[i+1:]...)
			return
		}
	}
}

// Active returns the toasts currently on screen, oldest first.
func (c *NotificationCenter) Active(sessionID string) []domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	feed, ok := c.feeds[sessionID]
	if !ok {
		return []domain.Notification{}
	}
	out := make([]domain.Notification, 0, len(feed.toasts))
	for _, t := range feed.toasts {
		out = append(out, t.notification)
	}
	return out
}

// Open creates the feed and live region of a session. Notifications for
// sessions without a feed are dropped.
func (c *NotificationCenter) Open(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.feeds[sessionID]; !ok {
		c.feeds[sessionID] = &notificationFeed{region: NewLiveRegion()}
	}
}

// LiveRegion returns the session's announcer; a session without a feed reads as an empty region.
func (c *NotificationCenter) LiveRegion(sessionID string) *LiveRegion {
	c.mu.Lock()
	defer c.mu.Unlock()
	if feed, ok := c.feeds[sessionID]; ok {
		return feed.region
	}
	return NewLiveRegion()
}

// Reset stops every pending dismissal of the session and drops its feed.
func (c *NotificationCenter) Reset(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	feed, ok := c.feeds[sessionID]
	if !ok {
		return
	}
	for _, t := range feed.toasts {
		t.timer.Stop()
	}
	delete(c.feeds, sessionID)
}
