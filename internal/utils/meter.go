package utils

import (
	"io"
	"sync/atomic"
	"time"
)

// StreamMeter wraps a response writer and measures a streamed download:
// bytes written, time to the first byte and the overall rate.
type StreamMeter struct {
	w       io.Writer
	started time.Time
	firstNs atomic.Int64
	bytes   atomic.Int64
	now     func() time.Time
}

// NewStreamMeter starts measuring writes to w.
func NewStreamMeter(w io.Writer) *StreamMeter {
	return newStreamMeter(w, time.Now)
}

func newStreamMeter(w io.Writer, now func() time.Time) *StreamMeter {
	return &StreamMeter{w: w, started: now(), now: now}
}

func (m *StreamMeter) Write(p []byte) (int, error) {
	if len(p) > 0 && m.firstNs.Load() == 0 {
		m.firstNs.CompareAndSwap(0, m.now().UnixNano())
	}
	n, err := m.w.Write(p)
	m.bytes.Add(int64(n))
	return n, err
}

// Bytes is the number of bytes written so far.
func (m *StreamMeter) Bytes() int64 { return m.bytes.Load() }

// TimeToFirstByte is zero until something was written.
func (m *StreamMeter) TimeToFirstByte() time.Duration {
	ns := m.firstNs.Load()
	if ns == 0 {
		return 0
	}
	return time.Unix(0, ns).Sub(m.started)
}

// Rate returns bytes per second since the meter was created.
func (m *StreamMeter) Rate() float64 {
	elapsed := m.now().Sub(m.started).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(m.Bytes()) / elapsed
}
