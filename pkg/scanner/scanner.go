// Package scanner turns barcode reader input into codes.
//
// Readers either type into the terminal like a keyboard (KeyBuffer) or are
// exposed as a line-oriented device (LineSource). Both feed a Gate that drops
// repeat scans arriving inside the cooldown window.
package scanner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

// ErrUnavailable is returned when the input device cannot be acquired.
var ErrUnavailable = errors.New("scanner unavailable")

// MinCodeLength is the shortest buffer accepted as a scan, exclusive.
const MinCodeLength = 3

// Gate accepts one code per cooldown window. Codes inside the window are
// discarded, not queued.
type Gate struct {
	limiter *rate.Limiter
}

func NewGate(cooldown time.Duration) *Gate {
	limit := rate.Inf
	if cooldown > 0 {
		limit = rate.Every(cooldown)
	}
	return &Gate{limiter: rate.NewLimiter(limit, 1)}
}

// AllowAt reports whether a scan at t passes the gate.
func (g *Gate) AllowAt(t time.Time) bool {
	return g.limiter.AllowN(t, 1)
}

// KeyBuffer assembles keystrokes from a keyboard-wedge reader. Keys more than
// gap apart start a new buffer, so human typing never forms a code.
type KeyBuffer struct {
	mu   sync.Mutex
	gap  time.Duration
	buf  strings.Builder
	last time.Time
}

func NewKeyBuffer(gap time.Duration) *KeyBuffer {
	if gap <= 0 {
		gap = 50 * time.Millisecond
	}
	return &KeyBuffer{gap: gap}
}

// Key feeds one key name at t ("Enter" or a single character; other names are
// ignored). It returns the code when Enter completes a scan longer than
// MinCodeLength characters.
func (b *KeyBuffer) Key(key string, t time.Time) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.last.IsZero() && t.Sub(b.last) > b.gap {
		b.buf.Reset()
	}
	b.last = t

	switch {
	case key == "Enter":
		if utf8.RuneCountInString(b.buf.String()) > MinCodeLength {
			code := b.buf.String()
			b.buf.Reset()
			return code, true
		}
	case utf8.RuneCountInString(key) == 1:
		b.buf.WriteString(key)
	}
	return "", false
}

// LineSource reads one code per line from a device such as a serial or HID
// reader exposed as a file.
type LineSource struct {
	r      io.ReadCloser
	closer sync.Once
}

// Open acquires the device at path.
func Open(path string) (*LineSource, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no device configured", ErrUnavailable)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return NewLineSource(f), nil
}

func NewLineSource(r io.ReadCloser) *LineSource {
	return &LineSource{r: r}
}

// Run calls emit for every non-empty line until the reader ends or ctx is done.
func (s *LineSource) Run(ctx context.Context, emit func(code string)) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()

	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		code := strings.TrimSpace(sc.Text())
		if len(code) <= MinCodeLength {
			continue
		}
		emit(code)
	}
	if ctx.Err() != nil {
		return nil
	}
	return sc.Err()
}

func (s *LineSource) Close() error {
	var err error
	s.closer.Do(func() { err = s.r.Close() })
	return err
}
