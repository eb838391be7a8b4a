package sql

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultSlowThreshold is the slow statement threshold of a StatsDriver.
const DefaultSlowThreshold = 100 * time.Millisecond

// Counters of a QueryStats.
const (
	countQuery = iota
	countExec
	countFailed
	countSlow
	numCounts
)

// QueryStats counts the statements run by a StatsDriver. It is safe for
// concurrent use.
type QueryStats struct {
	counts  [numCounts]atomic.Int64
	elapsed atomic.Int64
}

// Stats returns a copy of the counters.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		Queries: s.counts[countQuery].Load(),
		Execs:   s.counts[countExec].Load(),
		Failed:  s.counts[countFailed].Load(),
		Slow:    s.counts[countSlow].Load(),
		Elapsed: time.Duration(s.elapsed.Load()),
	}
}

// Reset zeroes the counters.
func (s *QueryStats) Reset() {
	for i := range s.counts {
		s.counts[i].Store(0)
	}
	s.elapsed.Store(0)
}

func (s *QueryStats) add(kind int, d time.Duration, failed, slow bool) {
	s.counts[kind].Add(1)
	s.elapsed.Add(int64(d))
	if failed {
		s.counts[countFailed].Add(1)
	}
	if slow {
		s.counts[countSlow].Add(1)
	}
}

// StatsSnapshot holds the counters of a QueryStats at one point in time.
// Failed and Slow statements are also counted in Queries or Execs.
type StatsSnapshot struct {
	Queries int64
	Execs   int64
	Failed  int64
	Slow    int64
	Elapsed time.Duration
}

// Statements returns the number of statements run.
func (s StatsSnapshot) Statements() int64 { return s.Queries + s.Execs }

// AvgDuration returns the mean statement duration, zero when nothing ran.
func (s StatsSnapshot) AvgDuration() time.Duration {
	n := s.Statements()
	if n == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(n)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("%d statements (%d queries, %d execs) in %s, avg %s, %d slow, %d failed",
		s.Statements(), s.Queries, s.Execs, s.Elapsed, s.AvgDuration(), s.Slow, s.Failed)
}

// SlowQueryHook receives every statement slower than the threshold.
type SlowQueryHook func(ctx context.Context, query string, args []any, duration time.Duration)

// StatsDriver is a Driver counting the statements it runs.
type StatsDriver struct {
	*Driver
	stats     QueryStats
	threshold atomic.Int64
	hook      SlowQueryHook
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is slow.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) { s.threshold.Store(int64(d)) }
}

// WithSlowQueryHook sets the hook of slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) { s.hook = hook }
}

// WithSlowQueryLog logs slow statements as warnings on log.
func WithSlowQueryLog(log *zap.Logger) StatsOption {
	return WithSlowQueryHook(func(_ context.Context, query string, args []any, d time.Duration) {
		log.Warn("slow statement", zap.String("query", query), zap.Int("args", len(args)), zap.Duration("took", d))
	})
}

// NewStatsDriver returns drv counting its statements.
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv}
	s.threshold.Store(int64(DefaultSlowThreshold))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the live counters.
func (d *StatsDriver) QueryStats() *QueryStats { return &d.stats }

// SlowThreshold returns the slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration { return time.Duration(d.threshold.Load()) }

// SetSlowThreshold changes the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(t time.Duration) { d.threshold.Store(int64(t)) }

// QueryContext implements ExecQuerier.
func (d *StatsDriver) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.Driver.QueryContext(ctx, query, args...)
	d.observe(ctx, countQuery, query, args, time.Since(start), err)
	return rows, err
}

// ExecContext implements ExecQuerier.
func (d *StatsDriver) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := d.Driver.ExecContext(ctx, query, args...)
	d.observe(ctx, countExec, query, args, time.Since(start), err)
	return res, err
}

func (d *StatsDriver) observe(ctx context.Context, kind int, query string, args []any, took time.Duration, err error) {
	slow := took > d.SlowThreshold()
	d.stats.add(kind, took, err != nil, slow)
	if slow && d.hook != nil {
		d.hook(ctx, query, args, took)
	}
}

var _ ExecQuerier = (*StatsDriver)(nil)
