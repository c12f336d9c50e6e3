package ingest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"souq.GO/config"
	catalogEntity "souq.GO/model/entity/catalog"
)

// Job states.
const (
	JobQueued     = "queued"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
	JobCancelled  = "cancelled"
)

// Job is one queued ingestion batch. Fields are owned by the queue;
// callers read them through Status snapshots.
type Job struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	Progress   int           `json:"progress"`
	Total      int           `json:"total"`
	Result     *ImportResult `json:"result,omitempty"`
	Error      string        `json:"error,omitempty"`
	EnqueuedAt time.Time     `json:"enqueued_at"`
	StartedAt  *time.Time    `json:"started_at,omitempty"`
	FinishedAt *time.Time    `json:"finished_at,omitempty"`

	items  []RawProduct
	cancel context.CancelFunc
}

// JobQueue runs ingestion batches one at a time. Enqueue never blocks;
// batches wait in FIFO order and a single runner goroutine drains them,
// so two imports never write the catalog concurrently.
type JobQueue struct {
	mu      sync.Mutex
	jobs    map[string]*Job
	pending []string
	running bool

	db  *gorm.DB
	cfg *config.Config
}

func NewJobQueue(db *gorm.DB, cfg *config.Config) *JobQueue {
	return &JobQueue{
		jobs: map[string]*Job{},
		db:   db,
		cfg:  cfg,
	}
}

// Enqueue registers a batch and starts the runner when idle. The
// returned ID is the handle for Status and Cancel.
func (q *JobQueue) Enqueue(items []RawProduct) string {
	job := &Job{
		ID:         uuid.NewString(),
		Status:     JobQueued,
		Total:      len(items),
		EnqueuedAt: time.Now(),
		items:      items,
	}

	q.mu.Lock()
	q.jobs[job.ID] = job
	q.pending = append(q.pending, job.ID)
	shouldStart := !q.running
	if shouldStart {
		q.running = true
	}
	q.mu.Unlock()

	if shouldStart {
		go q.run()
	}
	return job.ID
}

// Status returns a snapshot of a job. The bool reports whether the ID
// is known.
func (q *JobQueue) Status(id string) (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return Job{}, false
	}
	snap := *job
	snap.items = nil
	snap.cancel = nil
	if job.Result != nil {
		r := *job.Result
		snap.Result = &r
	}
	return snap, true
}

// Cancel stops a job. A queued job is dropped from the pending list; a
// processing job has its context cancelled and finishes as failed.
// Finished jobs report false.
func (q *JobQueue) Cancel(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return false
	}
	switch job.Status {
	case JobQueued:
		job.Status = JobCancelled
		now := time.Now()
		job.FinishedAt = &now
		job.items = nil
		for i, pid := range q.pending {
			if pid == id {
				q.pending = append(q.pending[:i], q.pending[i+1:]...)
				break
			}
		}
		return true
	case JobProcessing:
		if job.cancel != nil {
			job.cancel()
		}
		return true
	default:
		return false
	}
}

// run is the single runner loop. It drains the pending list and exits
// when empty; the next Enqueue starts a fresh one.
func (q *JobQueue) run() {
	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		id := q.pending[0]
		q.pending = q.pending[1:]
		job := q.jobs[id]
		ctx, cancel := context.WithCancel(context.Background())
		job.Status = JobProcessing
		now := time.Now()
		job.StartedAt = &now
		job.cancel = cancel
		items := job.items
		q.mu.Unlock()

		q.process(ctx, job, items)
		cancel()
	}
}

func (q *JobQueue) process(ctx context.Context, job *Job, items []RawProduct) {
	progress := make(chan int, 32)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for pct := range progress {
			q.mu.Lock()
			job.Progress = pct
			q.mu.Unlock()
		}
	}()

	result, err := ImportProducts(ctx, q.db, q.cfg, items, ImportOptions{
		Progress: progress,
		Status:   catalogEntity.StatusDraft,
	})
	close(progress)
	<-done

	q.mu.Lock()
	defer q.mu.Unlock()
	finished := time.Now()
	job.FinishedAt = &finished
	job.items = nil
	job.cancel = nil
	if err != nil {
		job.Status = JobFailed
		job.Error = err.Error()
		log.Printf("ingest: job %s failed: %v", job.ID, err)
		return
	}
	job.Status = JobCompleted
	job.Progress = 100
	job.Result = result
}
