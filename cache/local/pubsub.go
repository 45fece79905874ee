package local

import (
	"context"
	"sync"
)

// Message is a delivered pub/sub message.
type Message struct {
	Channel string
	Payload string
}

type subscriber struct {
	ch     chan *Message
	closed bool
}

// PubSub is an in-process publish/subscribe fan-out. Delivery is
// best effort: a subscriber whose buffer is full misses the message
// rather than blocking the publisher.
type PubSub struct {
	mu      sync.Mutex
	bufSize int
	subs    map[string]map[*subscriber]struct{}
}

func NewPubSub(bufSize int) *PubSub {
	if bufSize <= 0 {
		bufSize = 256
	}
	return &PubSub{
		bufSize: bufSize,
		subs:    make(map[string]map[*subscriber]struct{}),
	}
}

func (p *PubSub) Publish(_ context.Context, channel, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for s := range p.subs[channel] {
		select {
		case s.ch <- &Message{Channel: channel, Payload: message}:
		default:
		}
	}
	return nil
}

// Subscribe registers for one or more channels. The returned cancel
// func unregisters and closes the message channel; calling it twice
// is safe.
func (p *PubSub) Subscribe(_ context.Context, channels ...string) (<-chan *Message, func(), error) {
	s := &subscriber{ch: make(chan *Message, p.bufSize)}

	p.mu.Lock()
	for _, name := range channels {
		set, ok := p.subs[name]
		if !ok {
			set = make(map[*subscriber]struct{})
			p.subs[name] = set
		}
		set[s] = struct{}{}
	}
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if s.closed {
			return
		}
		s.closed = true
		for _, name := range channels {
			if set, ok := p.subs[name]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(p.subs, name)
				}
			}
		}
		close(s.ch)
	}
	return s.ch, cancel, nil
}
