package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressReporter logs per-item progress of a bounded batch, such as the
// keywords of one analysis run. Safe for concurrent use.
type ProgressReporter struct {
	mu          sync.Mutex
	total       int
	done        int
	failed      int
	description string
	startTime   time.Time
	logger      *Logger
}

// NewProgressReporter creates a reporter for total items.
func NewProgressReporter(l *Logger, total int, description string) *ProgressReporter {
	if l == nil {
		l = GetLogger()
	}
	return &ProgressReporter{
		total:       total,
		description: description,
		startTime:   time.Now(),
		logger:      l.WithField("component", "progress"),
	}
}

// Step records one finished item.
func (pr *ProgressReporter) Step(item string, failed bool) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.done++
	if failed {
		pr.failed++
	}

	pr.logger.WithFields(map[string]interface{}{
		"item":    item,
		"current": pr.done,
		"total":   pr.total,
		"failed":  pr.failed,
		"elapsed": time.Since(pr.startTime).Round(time.Millisecond).String(),
	}).Info(fmt.Sprintf("%s: %d/%d%s", pr.description, pr.done, pr.total, pr.eta()))
}

// Progress returns done, failed and total counts.
func (pr *ProgressReporter) Progress() (done, failed, total int) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.done, pr.failed, pr.total
}

// eta must be called with the lock held.
func (pr *ProgressReporter) eta() string {
	if pr.done == 0 || pr.done >= pr.total {
		return ""
	}
	perItem := time.Since(pr.startTime) / time.Duration(pr.done)
	remaining := time.Duration(pr.total-pr.done) * perItem
	return fmt.Sprintf(" (ETA: %s)", remaining.Round(time.Second))
}
