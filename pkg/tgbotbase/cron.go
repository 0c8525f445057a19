package tgbotbase

import (
	"container/heap"
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Cron interface declares interfaces for communication with some cron daemon
type Cron interface {
	AddJob(when time.Time, job CronJob)
}

// CronJob provides a piece of work which should be done once its time has come
type CronJob interface {
	Do(scheduledWhen time.Time, cron Cron)
}

const cronIdle = time.Hour

type cronEntry struct {
	when time.Time
	seq  uint64
	job  CronJob
}

// cronQueue is a min-heap by time, equal times keep insertion order.
type cronQueue []cronEntry

func (q cronQueue) Len() int { return len(q) }
func (q cronQueue) Less(i, j int) bool {
	if q[i].when.Equal(q[j].when) {
		return q[i].seq < q[j].seq
	}
	return q[i].when.Before(q[j].when)
}
func (q cronQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *cronQueue) Push(x any)   { *q = append(*q, x.(cronEntry)) }
func (q *cronQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	*q = old[:n-1]
	return e
}

type cron struct {
	ctx      context.Context
	newJobCh chan cronEntry
	queue    cronQueue
	seq      uint64
}

func (c *cron) AddJob(when time.Time, job CronJob) {
	select {
	case c.newJobCh <- cronEntry{when: when, job: job}:
	case <-c.ctx.Done():
		log.WithField("when", when).Debug("cron: stopped, job is dropped")
	}
}

// due pops every job scheduled not later than now.
func (c *cron) due(now time.Time) []cronEntry {
	var ready []cronEntry
	for c.queue.Len() > 0 && !c.queue[0].when.After(now) {
		ready = append(ready, heap.Pop(&c.queue).(cronEntry))
	}
	return ready
}

func (c *cron) next(now time.Time) time.Duration {
	if c.queue.Len() == 0 {
		return cronIdle
	}
	d := c.queue[0].when.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func (c *cron) run() {
	timer := time.NewTimer(cronIdle)
	defer timer.Stop()
	for {
		select {
		case <-c.ctx.Done():
			log.Info("cron: stopped")
			return
		case e := <-c.newJobCh:
			c.seq++
			e.seq = c.seq
			heap.Push(&c.queue, e)
		case now := <-timer.C:
			if c.ctx.Err() != nil {
				return
			}
			ready := c.due(now)
			if len(ready) > 0 {
				log.WithFields(log.Fields{
					"jobs": len(ready),
					"left": c.queue.Len(),
				}).Debug("cron: executing jobs")
			}
			for _, e := range ready {
				go e.job.Do(e.when, c)
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(c.next(time.Now()))
	}
}

// NewCron starts a scheduler which lives until ctx is done.
func NewCron(ctx context.Context) Cron {
	c := &cron{
		ctx:      ctx,
		newJobCh: make(chan cronEntry),
	}
	go c.run()
	log.Info("New cron has started")
	return c
}

// Every is a CronJob repeating fn with a fixed interval until fn returns false.
type Every struct {
	Interval time.Duration
	Fn       func(scheduledWhen time.Time) bool
}

func (e *Every) Do(scheduledWhen time.Time, c Cron) {
	if !e.Fn(scheduledWhen) {
		return
	}
	c.AddJob(scheduledWhen.Add(e.Interval), e)
}
