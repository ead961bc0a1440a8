package loghub

import (
	"bytes"
	"sync"
)

// Hub is a small in-memory log aggregator for the UI.
// It implements io.Writer so it can be wired into log.SetOutput.
type Hub struct {
	mu    sync.RWMutex
	lines []string
	subs  map[chan string]struct{}
	max   int
	buf   bytes.Buffer
}

func New(maxLines int) *Hub {
	if maxLines <= 0 {
		maxLines = 2000
	}
	return &Hub{
		lines: make([]string, 0, maxLines),
		subs:  make(map[chan string]struct{}),
		max:   maxLines,
	}
}

func (h *Hub) Write(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Collect partial lines between writes.
	h.buf.Write(p)
	for {
		b := h.buf.Bytes()
		idx := bytes.IndexByte(b, '\n')
		if idx < 0 {
			break
		}
		line := string(bytes.TrimRight(b[:idx], "\r"))
		h.buf.Next(idx + 1)
		h.appendLineLocked(line)
	}
	return len(p), nil
}

func (h *Hub) appendLineLocked(line string) {
	if line == "" {
		return
	}
	h.lines = append(h.lines, line)
	if len(h.lines) > h.max {
		h.lines = h.lines[len(h.lines)-h.max:]
	}
	for ch := range h.subs {
		select {
		case ch <- line:
		default:
			// slow subscriber, drop rather than block the logger
		}
	}
}

func (h *Hub) Snapshot() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

func (h *Hub) Subscribe(buffer int) (<-chan string, func()) {
	if buffer <= 0 {
		buffer = 200
	}
	ch := make(chan string, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	unsub := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, unsub
}

func (h *Hub) Clear() {
	h.mu.Lock()
	h.lines = h.lines[:0]
	h.buf.Reset()
	h.mu.Unlock()
}
