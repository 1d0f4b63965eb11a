package client

import (
	"context"
	"sync"
	"time"
)

// Callbacks receive watch events. Any callback may be nil.
//
// OnUpdate fires after every successful poll while the job is still in
// flight. OnComplete fires exactly once when the job reaches
// completed. OnFailure fires exactly once when the job reaches failed,
// or when a poll attempt itself errors; message is the server-reported
// error when available. No callback fires after Cancel returns.
type Callbacks struct {
	OnUpdate   func(job *Job)
	OnComplete func(job *Job)
	OnFailure  func(message string)
}

// Watch is a handle on a repeating poll of a single job.
type Watch struct {
	client *Client
	jobID  string
	cb     Callbacks

	ctx    context.Context
	cancel context.CancelFunc

	// mu serializes callback delivery against Cancel: Cancel takes mu
	// before setting stopped, so once Cancel returns no callback can
	// still be running or fire later.
	mu      sync.Mutex
	stopped bool
}

// Watch begins polling the job at the client's poll interval. Only one
// watch may be active per Client; a second Watch before the first has
// terminated returns ConcurrentJobError.
func (c *Client) Watch(jobID string, cb Callbacks) (*Watch, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		return nil, &ConcurrentJobError{ActiveJobID: c.active.jobID}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watch{
		client: c,
		jobID:  jobID,
		cb:     cb,
		ctx:    ctx,
		cancel: cancel,
	}
	c.active = w

	go w.run(c.pollInterval())

	return w, nil
}

// Cancel stops the watch. It is idempotent, safe to call after the
// watch has already terminated, and guarantees that no further
// callback is invoked once it returns.
func (w *Watch) Cancel() {
	w.cancel()

	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()

	w.client.release(w)
}

func (c *Client) release(w *Watch) {
	c.mu.Lock()
	if c.active == w {
		c.active = nil
	}
	c.mu.Unlock()
}

func (w *Watch) run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
		}

		job, err := w.client.PollStatus(w.ctx, w.jobID)
		if err != nil {
			// A single poll failure terminates the watch; there is no
			// automatic retry.
			w.finish(func() {
				if w.cb.OnFailure != nil {
					w.cb.OnFailure(err.Error())
				}
			})
			return
		}

		switch job.Status {
		case StatusCompleted:
			w.finish(func() {
				if w.cb.OnComplete != nil {
					w.cb.OnComplete(job)
				}
			})
			return
		case StatusFailed:
			msg := job.Error
			if msg == "" {
				msg = job.Message
			}
			w.finish(func() {
				if w.cb.OnFailure != nil {
					w.cb.OnFailure(msg)
				}
			})
			return
		default:
			if !w.deliver(func() {
				if w.cb.OnUpdate != nil {
					w.cb.OnUpdate(job)
				}
			}) {
				return
			}
		}
	}
}

// deliver runs fn under the watch lock unless the watch has been
// cancelled. Returns false when the watch should stop.
func (w *Watch) deliver(fn func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return false
	}
	fn()
	return true
}

// finish delivers a terminal callback and releases the client slot so
// a new job can be submitted.
func (w *Watch) finish(fn func()) {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		fn()
	}
	w.mu.Unlock()

	w.cancel()
	w.client.release(w)
}
