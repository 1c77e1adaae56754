package local

import (
	"context"
	"sync"
)

// LocalMessage is an in-process pub/sub message.
type LocalMessage struct {
	Channel string
	Payload string
}

// LocalPubSub fans published messages out to every subscriber of a channel.
// A subscriber whose buffer is full loses the message; publishers never
// block on a slow consumer.
type LocalPubSub struct {
	mu      sync.RWMutex
	subs    map[string]map[int]chan *LocalMessage
	nextID  int
	bufSize int
}

// NewPubSub creates a LocalPubSub with the given per-subscriber buffer size.
func NewPubSub(bufSize int) *LocalPubSub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &LocalPubSub{
		subs:    map[string]map[int]chan *LocalMessage{},
		bufSize: bufSize,
	}
}

// Publish delivers message to every current subscriber of channel.
func (ps *LocalPubSub) Publish(_ context.Context, channel, message string) error {
	msg := &LocalMessage{Channel: channel, Payload: message}
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	for _, ch := range ps.subs[channel] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

// Subscribe registers one buffered channel for all the given channels. The
// returned cancel unregisters it and closes the channel; it is idempotent.
func (ps *LocalPubSub) Subscribe(_ context.Context, channels ...string) (<-chan *LocalMessage, func(), error) {
	ch := make(chan *LocalMessage, ps.bufSize)

	ps.mu.Lock()
	id := ps.nextID
	ps.nextID++
	for _, name := range channels {
		if ps.subs[name] == nil {
			ps.subs[name] = map[int]chan *LocalMessage{}
		}
		ps.subs[name][id] = ch
	}
	ps.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			ps.mu.Lock()
			for _, name := range channels {
				delete(ps.subs[name], id)
				if len(ps.subs[name]) == 0 {
					delete(ps.subs, name)
				}
			}
			ps.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}
