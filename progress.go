package upgma

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Progress receives coarse-grained work reports from a construction. It is
// purely observational. Add may be called from several goroutines.
type Progress interface {
	// Start begins a task that will report about total units of work.
	Start(task string, total float64)
	// Add reports work units completed since the previous call.
	Add(work float64)
	// Done ends the current task.
	Done()
}

type nopProgress struct{}

func (nopProgress) Start(string, float64) {}
func (nopProgress) Add(float64)           {}
func (nopProgress) Done()                 {}

// LogProgress is a Progress that logs percentage milestones through zap.
type LogProgress struct {
	logger *zap.Logger
	step   float64

	mu       sync.Mutex
	task     string
	total    float64
	done     float64
	next     float64
	started  time.Time
	finished bool
}

// NewLogProgress returns a LogProgress that logs at Info level each time
// another step percent of the task completes. step <= 0 defaults to 10.
func NewLogProgress(logger *zap.Logger, step float64) *LogProgress {
	if logger == nil {
		logger = zap.NewNop()
	}
	if step <= 0 {
		step = 10
	}
	return &LogProgress{logger: logger, step: step}
}

// Start begins task and resets the milestone counter.
func (p *LogProgress) Start(task string, total float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.task = task
	p.total = total
	p.done = 0
	p.next = p.step
	p.started = time.Now()
	p.finished = false
}

// Add records work and logs when it crosses the next step percent milestone.
func (p *LogProgress) Add(work float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished || p.total <= 0 {
		return
	}
	p.done += work
	percent := 100 * p.done / p.total
	if percent < p.next {
		return
	}
	for p.next <= percent {
		p.next += p.step
	}
	p.logger.Info("progress",
		zap.String("task", p.task),
		zap.Float64("percent", min(percent, 100)),
		zap.Duration("elapsed", time.Since(p.started)),
	)
}

// Done logs the end of the task. Later calls are ignored until the next Start.
func (p *LogProgress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.finished = true
	p.logger.Info("task done",
		zap.String("task", p.task),
		zap.Duration("elapsed", time.Since(p.started)),
	)
}

// progressGranularity is the number of work units batched before the sink
// hears about them.
const progressGranularity = 1000

// progressMeter batches work so the sink is notified once per
// progressGranularity units rather than once per row.
type progressMeter struct {
	sink    Progress
	mu      sync.Mutex
	pending float64
}

func newProgressMeter(sink Progress, task string, total float64) *progressMeter {
	sink.Start(task, total)
	return &progressMeter{sink: sink}
}

func (p *progressMeter) add(work float64) {
	p.mu.Lock()
	p.pending += work
	if p.pending < progressGranularity {
		p.mu.Unlock()
		return
	}
	w := p.pending
	p.pending = 0
	p.mu.Unlock()
	p.sink.Add(w)
}

func (p *progressMeter) done() {
	p.mu.Lock()
	w := p.pending
	p.pending = 0
	p.mu.Unlock()
	if w > 0 {
		p.sink.Add(w)
	}
	p.sink.Done()
}
