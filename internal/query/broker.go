package query

import (
	"sync"

	"github.com/pocketledger/backend/internal/ledger"
)

// Broker fans committed ledger events out to view subscribers.
//
// Notifications are delivered on a channel with capacity one: a burst of
// commits may coalesce into a single wakeup, but a subscriber is never woken
// for a state older than one it has already pulled, because subscribers
// recompute from the store on every wakeup.
type Broker struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewBroker returns an empty Broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[*Subscription]struct{})}
}

// Subscription wakes one subscriber for one user's committed mutations.
type Subscription struct {
	broker *Broker
	userID uint64
	ch     chan struct{}
}

// Subscribe registers a subscriber for all commits of the given user.
func (b *Broker) Subscribe(userID uint64) *Subscription {
	s := &Subscription{
		broker: b,
		userID: userID,
		ch:     make(chan struct{}, 1),
	}

	b.mu.Lock()
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	return s
}

// Publish notifies all subscriptions matching the event's user. It never
// blocks: a pending notification already covers the new commit.
func (b *Broker) Publish(event ledger.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for s := range b.subs {
		if s.userID != event.UserID {
			continue
		}

		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

// Updates is the wakeup channel. After a receive, pull fresh snapshots from
// Queries; they reflect at least the commit that triggered the wakeup.
func (s *Subscription) Updates() <-chan struct{} {
	return s.ch
}

// Close unregisters the subscription.
func (s *Subscription) Close() {
	s.broker.mu.Lock()
	delete(s.broker.subs, s)
	s.broker.mu.Unlock()
}
