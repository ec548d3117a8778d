package export

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-generator/internal/types"
)

// Status of an asynchronous export
type Status string

// Export statuses
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Finished jobs are kept for DefaultRetention and at most DefaultMaxJobs
// jobs are tracked unless WithRetention says otherwise
const (
	DefaultRetention = 15 * time.Minute
	DefaultMaxJobs   = 32
)

// Job is the state of one asynchronous PDF export
type Job struct {
	ID          string     `json:"id"`
	Status      Status     `json:"status"`
	Filename    string     `json:"filename,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	artifact *Artifact
	done     chan struct{}
}

// Artifact returns the produced PDF once the job has completed
func (j Job) Artifact() (*Artifact, bool) {
	return j.artifact, j.artifact != nil
}

// Manager runs PDF exports in the background. Each export works on a
// snapshot taken when it starts.
type Manager struct {
	exporter  *Exporter
	timeout   time.Duration
	onFinish  func(Job)
	retention time.Duration
	maxJobs   int
	now       func() time.Time

	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// OnFinish registers a callback run after every export completes or fails
func OnFinish(fn func(Job)) ManagerOption {
	return func(m *Manager) { m.onFinish = fn }
}

// WithRetention bounds how long a finished job and its PDF stay
// downloadable and how many jobs are tracked at once. Pending jobs are
// never evicted. Zero values keep the defaults.
func WithRetention(ttl time.Duration, maxJobs int) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.retention = ttl
		}
		if maxJobs > 0 {
			m.maxJobs = maxJobs
		}
	}
}

// NewManager returns a manager running exports with exporter
func NewManager(exporter *Exporter, timeout time.Duration, opts ...ManagerOption) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	m := &Manager{
		exporter:  exporter,
		timeout:   timeout,
		retention: DefaultRetention,
		maxJobs:   DefaultMaxJobs,
		now:       time.Now,
		jobs:      make(map[string]*Job),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start snapshots doc, begins exporting it and returns the export ID
func (m *Manager) Start(doc *types.CVDocument) string {
	snap := doc.Clone()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: m.now().UTC(),
		done:      make(chan struct{}),
	}

	m.mu.Lock()
	m.evictLocked(m.maxJobs - 1)
	m.jobs[job.ID] = job
	m.mu.Unlock()

	log.Printf("[EXPORT] Started export %s for %s", job.ID, snap.FullName())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		art, err := m.exporter.PDF(ctx, &snap)
		done := m.finish(job.ID, art, err)
		if m.onFinish != nil {
			m.onFinish(done)
		}
	}()
	return job.ID
}

func (m *Manager) finish(id string, art *Artifact, err error) Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := m.jobs[id]
	now := m.now().UTC()
	job.CompletedAt = &now
	if err != nil {
		job.Status = StatusFailed
		job.Error = err.Error()
		log.Printf("[EXPORT] Export %s failed: %v", id, err)
	} else {
		job.Status = StatusCompleted
		job.Filename = art.Filename
		job.artifact = art
		log.Printf("[EXPORT] Export %s completed: %s (%d bytes)", id, art.Filename, len(art.Data))
	}
	close(job.done)
	return *job
}

// evictLocked drops finished jobs past the retention period, then the
// oldest finished jobs until at most limit remain. m.mu must be held.
func (m *Manager) evictLocked(limit int) {
	cutoff := m.now().Add(-m.retention)
	var finished []*Job
	for id, job := range m.jobs {
		if job.CompletedAt == nil {
			continue
		}
		if job.CompletedAt.Before(cutoff) {
			delete(m.jobs, id)
			continue
		}
		finished = append(finished, job)
	}

	excess := len(m.jobs) - limit
	if excess <= 0 {
		return
	}
	n := min(excess, len(finished))
	if n == 0 {
		return
	}
	slices.SortFunc(finished, func(a, b *Job) int { return a.CompletedAt.Compare(*b.CompletedAt) })
	for _, job := range finished[:n] {
		delete(m.jobs, job.ID)
	}
	log.Printf("[EXPORT] Evicted %d finished export(s) over the limit of %d", n, m.maxJobs)
}

// Get returns a copy of the job with the given ID. Finished jobs past the
// retention period are no longer found.
func (m *Manager) Get(id string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.maxJobs)
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// Wait blocks until the job finishes or ctx is done
func (m *Manager) Wait(ctx context.Context, id string) (Job, error) {
	m.mu.Lock()
	job, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return Job{}, fmt.Errorf("export %s not found", id)
	}

	select {
	case <-job.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		return *job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}

// Close waits for every running export to finish
func (m *Manager) Close() {
	m.wg.Wait()
}
