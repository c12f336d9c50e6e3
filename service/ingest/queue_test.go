package ingest

import (
	"testing"
	"time"
)

func waitForJob(t *testing.T, q *JobQueue, id string) Job {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case <-deadline:
			t.Fatalf("job %s did not finish", id)
		default:
		}
		job, ok := q.Status(id)
		if !ok {
			t.Fatalf("job %s unknown", id)
		}
		if job.Status == JobCompleted || job.Status == JobFailed || job.Status == JobCancelled {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestJobQueueRunsBatch(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := ingestDB(t)
	q := NewJobQueue(db, ingestConfig())

	id := q.Enqueue([]RawProduct{hoodieListing()})
	job := waitForJob(t, q, id)

	if job.Status != JobCompleted {
		t.Fatalf("job = %+v", job)
	}
	if job.Progress != 100 {
		t.Errorf("progress = %d", job.Progress)
	}
	if job.Result == nil || job.Result.Imported != 1 {
		t.Errorf("result = %+v", job.Result)
	}
	if job.StartedAt == nil || job.FinishedAt == nil {
		t.Errorf("timestamps missing: %+v", job)
	}
}

func TestJobQueueSequentialJobs(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	db := ingestDB(t)
	q := NewJobQueue(db, ingestConfig())

	first := q.Enqueue([]RawProduct{hoodieListing()})
	second := q.Enqueue([]RawProduct{hoodieListing()})

	firstJob := waitForJob(t, q, first)
	secondJob := waitForJob(t, q, second)

	if firstJob.Result == nil || firstJob.Result.Imported != 1 {
		t.Errorf("first result = %+v", firstJob.Result)
	}
	// the resubmitted listing dedupes against the first job's import
	if secondJob.Result == nil || secondJob.Result.Skipped != 1 || secondJob.Result.Imported != 0 {
		t.Errorf("second result = %+v", secondJob.Result)
	}
}

func TestJobQueueCancelQueued(t *testing.T) {
	db := ingestDB(t)
	q := NewJobQueue(db, ingestConfig())

	// hold the runner so the job stays queued
	q.mu.Lock()
	q.running = true
	q.mu.Unlock()

	id := q.Enqueue([]RawProduct{hoodieListing()})
	if !q.Cancel(id) {
		t.Fatalf("cancel queued job refused")
	}
	job, ok := q.Status(id)
	if !ok || job.Status != JobCancelled {
		t.Fatalf("job = %+v", job)
	}
	if q.Cancel(id) {
		t.Errorf("cancelling a finished job should report false")
	}

	q.mu.Lock()
	q.running = false
	q.pending = nil
	q.mu.Unlock()
}

func TestJobQueueUnknownJob(t *testing.T) {
	db := ingestDB(t)
	q := NewJobQueue(db, ingestConfig())
	if _, ok := q.Status("nope"); ok {
		t.Errorf("unknown id reported found")
	}
	if q.Cancel("nope") {
		t.Errorf("unknown id cancelled")
	}
}
