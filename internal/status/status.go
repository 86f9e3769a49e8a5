// Package status carries recording status updates from the core to the Fyne
// UI and to any other registered sink (the web listing server).
package status

import "sync"

// Codes sent with status updates.
const (
	Ready     = "READY" // Idle, encoder available
	Recording = "REC"   // Recording in progress
	Stopped   = "DONE"  // Recording finished, file available
	Warning   = "WARN"  // Advisory: degraded session or missing output
	Error     = "ERR"   // Operation failed
)

// Message wraps a status code and message text
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// Notifier fans status messages out to the UI channel and to registered
// sinks. Publishing never blocks: if the UI channel is full the update is
// dropped.
type Notifier struct {
	C chan Message

	mu    sync.Mutex
	sinks []func(Message)
}

func NewNotifier() *Notifier {
	return &Notifier{C: make(chan Message, 10)}
}

// AddSink registers a callback invoked for every published message.
func (n *Notifier) AddSink(fn func(Message)) {
	n.mu.Lock()
	n.sinks = append(n.sinks, fn)
	n.mu.Unlock()
}

// Publish sends a status update with code and message
func (n *Notifier) Publish(code string, text string) {
	msg := Message{Code: code, Text: text}

	n.mu.Lock()
	sinks := make([]func(Message), len(n.sinks))
	copy(sinks, n.sinks)
	n.mu.Unlock()

	for _, sink := range sinks {
		sink(msg)
	}

	select {
	case n.C <- msg:
	default:
		// Channel is full, skip this update
	}
}
