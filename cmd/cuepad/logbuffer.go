package main

import "sync"

// logBuffer keeps last size log entries.
type logBuffer struct {
	mu      sync.Mutex
	entries [][]byte
	next    int
	full    bool
}

func newLogBuffer(size int) *logBuffer {
	if size < 1 {
		size = 1
	}
	return &logBuffer{entries: make([][]byte, size)}
}

func (b *logBuffer) WriteMessage(msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = msg
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// ReadLastMessages returns up to n newest entries, oldest first.
func (b *logBuffer) ReadLastMessages(n int) [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := b.next
	if b.full {
		stored = len(b.entries)
	}
	if n > stored {
		n = stored
	}
	if n <= 0 {
		return nil
	}

	result := make([][]byte, 0, n)
	start := b.next - n
	if start < 0 {
		start += len(b.entries)
	}
	for i := 0; i < n; i++ {
		result = append(result, b.entries[(start+i)%len(b.entries)])
	}
	return result
}
