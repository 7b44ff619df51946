package pool

import (
	"io"

	"github.com/charmbracelet/log"
)

// Metrics exposes allocator observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Alloc is called with the block size of every successful allocation.
	Alloc(bytes int)
	// Free is called with the block size of every effective deallocation.
	Free(bytes int)
	// Fail is called for every allocation that ended in ErrOutOfMemory.
	Fail()
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Alloc(int) {}
func (NoopMetrics) Free(int)  {}
func (NoopMetrics) Fail()     {}

var _ Metrics = NoopMetrics{}

// Options configures an Allocator. Zero Metrics/Logger are replaced in New():
//   - nil Metrics => NoopMetrics
//   - nil Logger  => discard
type Options struct {
	// MinPower is log2 of the smallest block handed out.
	MinPower int
	// MaxPower is log2 of the arena size.
	MaxPower int

	Metrics Metrics
	// Logger receives Debug records for allocation failures.
	Logger *log.Logger
}

func (o *Options) defaults() {
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}
