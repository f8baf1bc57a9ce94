package utils

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// FanOut delivers published values to every subscriber.
// Publish never blocks, value is dropped for a subscriber whose buffer is full.
type FanOut[T any] struct {
	mutex   sync.RWMutex
	closed  bool
	outputs map[uuid.UUID]chan T
	dropped map[uuid.UUID]uint64
}

func NewFanOut[T any]() *FanOut[T] {
	return &FanOut[T]{
		outputs: make(map[uuid.UUID]chan T),
		dropped: make(map[uuid.UUID]uint64),
	}
}

// Subscribe creates new output channel and its ID for later unsubscribing.
// Output channel will always be buffered with at least size 1.
func (f *FanOut[T]) Subscribe(size int) (uuid.UUID, <-chan T, error) {
	if size < 1 {
		size = 1
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return uuid.Nil, nil, fmt.Errorf("fan-out is closed")
	}

	id := uuid.New()
	c := make(chan T, size)
	f.outputs[id] = c
	return id, c, nil
}

// Unsubscribe removes output channel with given ID and closes it.
func (f *FanOut[T]) Unsubscribe(id uuid.UUID) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	c, ok := f.outputs[id]
	if !ok {
		return fmt.Errorf("output id %s not found", id)
	}
	close(c)
	delete(f.outputs, id)
	delete(f.dropped, id)
	return nil
}

func (f *FanOut[T]) Publish(v T) {
	f.mutex.RLock()
	var full []uuid.UUID
	for id, o := range f.outputs {
		select {
		case o <- v:
		default:
			full = append(full, id)
		}
	}
	f.mutex.RUnlock()

	if len(full) == 0 {
		return
	}
	f.mutex.Lock()
	for _, id := range full {
		if _, ok := f.outputs[id]; ok {
			f.dropped[id]++
		}
	}
	f.mutex.Unlock()
}

// Dropped returns number of values lost by given subscriber.
func (f *FanOut[T]) Dropped(id uuid.UUID) uint64 {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return f.dropped[id]
}

func (f *FanOut[T]) Subscribers() int {
	f.mutex.RLock()
	defer f.mutex.RUnlock()
	return len(f.outputs)
}

// Forward publishes everything received from input until it gets closed or ctx is done.
func (f *FanOut[T]) Forward(ctx context.Context, input <-chan T) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-input:
			if !ok {
				return
			}
			f.Publish(v)
		}
	}
}

// Close closes every output, following Subscribe calls fail.
func (f *FanOut[T]) Close() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	for id, c := range f.outputs {
		close(c)
		delete(f.outputs, id)
	}
}
