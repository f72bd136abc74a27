package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/templui/aquabuddy/internal/metrics"
)

// Task is one periodic job. Errors are logged and the next tick runs as usual.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Runner drives a set of tasks on their own tickers.
// A task never overlaps with itself: ticks that arrive while a run is in
// progress are dropped by the ticker.
type Runner struct {
	tasks  []Task
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewRunner(tasks ...Task) *Runner {
	return &Runner{
		tasks:  tasks,
		stopCh: make(chan struct{}),
	}
}

// Start launches one loop per task. ctx is passed to every run; cancelling it
// stops the loops just like Stop.
func (r *Runner) Start(ctx context.Context) {
	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(ctx, task)
	}
}

// Stop signals all loops and waits for in-flight runs to return.
func (r *Runner) Stop() {
	r.once.Do(func() { close(r.stopCh) })
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, task Task) {
	defer r.wg.Done()

	if task.Interval <= 0 {
		slog.Warn("task disabled, interval must be positive", "task", task.Name, "interval", task.Interval)
		return
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	slog.Info("task started", "task", task.Name, "interval", task.Interval)

	for {
		select {
		case <-ticker.C:
			RunOnce(ctx, task)
		case <-r.stopCh:
			slog.Info("task stopped", "task", task.Name)
			return
		case <-ctx.Done():
			slog.Info("task stopped", "task", task.Name, "reason", ctx.Err())
			return
		}
	}
}

// RunOnce executes a task a single time, recovering panics so a bad run
// cannot take the process down.
func RunOnce(ctx context.Context, task Task) (err error) {
	timer := metrics.NewTimer()
	outcome := "success"

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("task panicked", "task", task.Name, "panic", rec)
			outcome = "panic"
			err = fmt.Errorf("task %s panicked: %v", task.Name, rec)
		}
		timer.ObserveDuration(metrics.TaskDuration, task.Name)
		metrics.TaskRuns.WithLabelValues(task.Name, outcome).Inc()
	}()

	err = task.Run(ctx)
	if err != nil {
		outcome = "error"
		slog.Error("task failed", "task", task.Name, "error", err)
	}
	return err
}
