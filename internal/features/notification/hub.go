package notification

import (
	"sync"

	"go.uber.org/zap"
)

const subscriberBuffer = 16

// Publisher pushes freshly stored notifications to live listeners.
type Publisher interface {
	Publish(n Notification)
}

// Subscription receives the notifications matching its audience until closed.
type Subscription struct {
	audience Audience
	ch       chan Notification
	hub      *Hub
	once     sync.Once
}

func (s *Subscription) C() <-chan Notification {
	return s.ch
}

func (s *Subscription) Close() {
	s.once.Do(func() {
		select {
		case s.hub.unregister <- s:
		case <-s.hub.done:
		}
	})
}

// Hub fans notifications out to websocket subscribers. All subscriber
// bookkeeping happens on the Run goroutine.
type Hub struct {
	register   chan *Subscription
	unregister chan *Subscription
	broadcast  chan Notification
	done       chan struct{}
	stopOnce   sync.Once
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Subscription),
		unregister: make(chan *Subscription),
		broadcast:  make(chan Notification, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	subs := make(map[*Subscription]struct{})
	defer func() {
		for s := range subs {
			close(s.ch)
		}
	}()

	for {
		select {
		case s := <-h.register:
			subs[s] = struct{}{}
		case s := <-h.unregister:
			if _, ok := subs[s]; ok {
				delete(subs, s)
				close(s.ch)
			}
		case n := <-h.broadcast:
			for s := range subs {
				if !s.audience.Matches(n) {
					continue
				}
				select {
				case s.ch <- n:
				default:
					h.logger.Warn("Dropping notification for slow subscriber",
						zap.String("unit_id", s.audience.UnitID),
						zap.String("role", string(s.audience.Role)),
					)
				}
			}
		case <-h.done:
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Subscribe returns nil once the hub has stopped.
func (h *Hub) Subscribe(aud Audience) *Subscription {
	s := &Subscription{audience: aud, ch: make(chan Notification, subscriberBuffer), hub: h}
	select {
	case h.register <- s:
		return s
	case <-h.done:
		return nil
	}
}

// Publish never blocks the caller; notifications are dropped when the queue is full.
func (h *Hub) Publish(n Notification) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- n:
	default:
		h.logger.Warn("Notification hub queue full, dropping broadcast", zap.String("title", n.Title))
	}
}
