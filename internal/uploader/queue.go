// Package uploader pushes resume files to the API one at a time.
package uploader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justsurfingit/TalentScout-AI/internal/models"
)

// DefaultDelay is the gap between the end of one upload, successful or not,
// and the start of the next. It keeps a batch under the model's per-minute quota.
const DefaultDelay = 4 * time.Second

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// File is one document to upload.
type File struct {
	Name string
	Data []byte
}

// Item is a queued upload. Items stay in the queue once finished.
type Item struct {
	ID        string
	Name      string
	Status    Status
	Candidate *models.Candidate // set on success
	Err       error             // set on error

	data []byte
	ctx  context.Context
}

// Submitter sends one file and returns the graded candidate.
type Submitter func(ctx context.Context, file File) (*models.Candidate, error)

type Option func(*Queue)

func WithDelay(d time.Duration) Option {
	return func(q *Queue) { q.delay = d }
}

// WithNotify registers fn for every status change. It runs on the
// scheduling goroutine, so a slow fn delays the next upload.
func WithNotify(fn func(Item)) Option {
	return func(q *Queue) { q.notify = fn }
}

// Queue uploads items in insertion order with at most one upload in flight.
// Files may be added at any time; an upload in flight is never interrupted.
type Queue struct {
	mu      sync.Mutex
	items   []*Item
	busy    bool
	readyAt time.Time
	delay   time.Duration
	submit  Submitter
	notify  func(Item)
	wg      sync.WaitGroup
}

func NewQueue(submit Submitter, opts ...Option) *Queue {
	q := &Queue{submit: submit, delay: DefaultDelay}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Add appends files as pending items and returns their ids. Cancelling ctx
// marks those items that have not started as failed with the context error;
// an upload already in flight and items added under other contexts carry on.
func (q *Queue) Add(ctx context.Context, files ...File) []string {
	ids := make([]string, 0, len(files))

	q.mu.Lock()
	for _, f := range files {
		item := &Item{ID: uuid.NewString(), Name: f.Name, Status: StatusPending, data: f.Data, ctx: ctx}
		q.items = append(q.items, item)
		ids = append(ids, item.ID)
	}
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.run()
	}()
	return ids
}

// Wait blocks until every added item is finished.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Snapshot returns a copy of every item in insertion order.
func (q *Queue) Snapshot() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Item, len(q.items))
	for i, it := range q.items {
		out[i] = *it
		out[i].data = nil
		out[i].ctx = nil
	}
	return out
}

// run is the scheduler. Only the goroutine that took the busy flag uploads;
// any other returns at once and leaves the new items to it.
func (q *Queue) run() {
	for {
		item, wait := q.claim()
		if item == nil {
			return
		}

		if err := sleep(item.ctx, wait); err != nil {
			q.finish(item, nil, fmt.Errorf("upload cancelled: %w", err))
			q.release(false)
			continue
		}

		q.mu.Lock()
		item.Status = StatusUploading
		snapshot := *item
		q.mu.Unlock()
		q.emit(snapshot)

		file := File{Name: item.Name, Data: item.data}
		candidate, err := q.submit(context.WithoutCancel(item.ctx), file)
		q.finish(item, candidate, err)
		q.release(true)
	}
}

// claim takes the busy flag and the first pending item whose context is
// still live, failing cancelled ones on the way. It returns nil when another
// goroutine is busy or nothing is left. wait is the cooldown still owed.
func (q *Queue) claim() (*Item, time.Duration) {
	q.mu.Lock()
	if q.busy {
		q.mu.Unlock()
		return nil, 0
	}
	var (
		item      *Item
		cancelled []Item
	)
	for _, it := range q.items {
		if it.Status != StatusPending {
			continue
		}
		if err := it.ctx.Err(); err != nil {
			it.Status = StatusError
			it.Err = fmt.Errorf("upload cancelled: %w", err)
			it.data = nil
			cancelled = append(cancelled, *it)
			continue
		}
		item = it
		break
	}
	var wait time.Duration
	if item != nil {
		q.busy = true
		wait = time.Until(q.readyAt)
	}
	q.mu.Unlock()

	for _, it := range cancelled {
		q.emit(it)
	}
	return item, wait
}

// release drops the busy flag. After an upload the next one may start only
// once the delay has passed.
func (q *Queue) release(uploaded bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.busy = false
	if uploaded {
		q.readyAt = time.Now().Add(q.delay)
	}
}

func (q *Queue) finish(item *Item, candidate *models.Candidate, err error) {
	q.mu.Lock()
	if err != nil {
		item.Status = StatusError
		item.Err = err
	} else {
		item.Status = StatusSuccess
		item.Candidate = candidate
	}
	item.data = nil
	snapshot := *item
	q.mu.Unlock()

	q.emit(snapshot)
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) emit(item Item) {
	if q.notify != nil {
		item.data = nil
		item.ctx = nil
		q.notify(item)
	}
}
