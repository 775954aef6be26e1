package oplog

import (
	"log/slog"
	"sync"

	"github.com/hart-dev/hart/pkg/telemetry"
)

// Recorder turns observed passes into records, writes them to a sink and
// hands them to subscribers. It satisfies hart.Observer.
type Recorder struct {
	sink   Sink
	logger *slog.Logger

	mu      sync.Mutex
	subs    map[int]func(Record)
	nextSub int
	count   int
	err     error
}

// NewRecorder creates a recorder. sink may be nil when only subscribers
// are wanted. If logger is nil, slog.Default() is used.
func NewRecorder(sink Sink, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		sink:   sink,
		logger: logger,
		subs:   make(map[int]func(Record)),
	}
}

// ObservePass records p.
func (r *Recorder) ObservePass(p *telemetry.Pass) {
	rec := FromPass(p)

	r.mu.Lock()
	r.count++
	subs := make([]func(Record), 0, len(r.subs))
	for _, fn := range r.subs {
		subs = append(subs, fn)
	}
	r.mu.Unlock()

	if r.sink != nil {
		if err := r.sink.Write(rec); err != nil {
			r.mu.Lock()
			if r.err == nil {
				r.err = err
			}
			r.mu.Unlock()
			r.logger.Error("oplog write failed", "seq", rec.Seq, "error", err)
		}
	}
	for _, fn := range subs {
		fn(rec)
	}
}

// Subscribe registers fn for every later record and returns a function
// that removes it. fn runs on the rendering goroutine and must not block.
func (r *Recorder) Subscribe(fn func(Record)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Count returns the number of passes recorded.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Err returns the first sink error, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Close closes the sink and returns the first error seen.
func (r *Recorder) Close() error {
	if r.sink == nil {
		return r.Err()
	}
	if err := r.sink.Close(); err != nil {
		return err
	}
	return r.Err()
}
