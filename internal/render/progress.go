package render

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

const barWidth = 20

// Bar is a thread-safe in-place console progress bar:
//
//	Fetching items: [########............] 40%
//
// Tick may be called from concurrent workers; each call advances the
// bar by one unit of work.
type Bar struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	total int
	done  int
}

// NewBar creates a bar for total units of work and draws its zero state.
func NewBar(w io.Writer, label string, total int) *Bar {
	b := &Bar{w: w, label: label, total: total}
	b.draw()
	return b
}

// Tick advances the bar by one completed unit.
func (b *Bar) Tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.done < b.total {
		b.done++
	}
	b.draw()
}

// Done terminates the bar line.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintln(b.w)
}

// draw assumes the mutex is held (or the bar is not yet shared).
func (b *Bar) draw() {
	pct := 0.0
	if b.total > 0 {
		pct = float64(b.done) / float64(b.total)
	}
	filled := int(pct*barWidth + 0.5)
	if filled > barWidth {
		filled = barWidth
	}
	fmt.Fprintf(b.w, "\r%s: [%s%s] %.0f%%",
		b.label,
		strings.Repeat("#", filled),
		strings.Repeat(".", barWidth-filled),
		pct*100,
	)
}
