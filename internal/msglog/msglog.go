// Package msglog holds the bounded in-memory record of processed messages.
package msglog

import "sync"

// Entry is one processed-message record. The JSON shape is shared by the
// /messages endpoint and the sheet webhook.
type Entry struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Message     string `json:"message"`
	ReplyStatus string `json:"replyStatus"`
}

// Log is a fixed-capacity append-only ring. Appends never fail; once the ring
// is full the oldest entry is overwritten.
type Log struct {
	mu   sync.Mutex
	buf  []Entry
	next int
	size int
}

const DefaultCapacity = 1000

func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{buf: make([]Entry, capacity)}
}

func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = e
	l.next = (l.next + 1) % len(l.buf)
	if l.size < len(l.buf) {
		l.size++
	}
}

// Recent returns at most n of the newest entries in insertion order.
func (l *Log) Recent(n int) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n > l.size {
		n = l.size
	}
	if n <= 0 {
		return []Entry{}
	}

	out := make([]Entry, 0, n)
	start := l.next - n
	if start < 0 {
		start += len(l.buf)
	}
	for i := 0; i < n; i++ {
		out = append(out, l.buf[(start+i)%len(l.buf)])
	}
	return out
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
