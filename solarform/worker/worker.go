package worker

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/solarutah/solarform/solarform/db"
)

// ErrQueueFull is returned by Enqueue when no more jobs can be buffered.
var ErrQueueFull = errors.New("worker queue is full")

// JobAction performs the delivery of a job's values and returns the message
// to store with it.
type JobAction func(ctx context.Context, values url.Values) (string, error)

// Job is one queued delivery. The Values travel with the job in memory only;
// the database row records the outcome.
type Job struct {
	*db.Delivery
	Values url.Values
}

// NewJob returns a queued job for the given session.
func NewJob(sessionID, variant string, values url.Values) *Job {
	return &Job{
		Delivery: &db.Delivery{SessionID: sessionID, Variant: variant, Status: db.StatusQueued},
		Values:   values,
	}
}

// Worker with queue for running Jobs asynchronously.
type Worker struct {
	Action JobAction
	// OnFinish is called from the worker goroutine after each job ran.
	OnFinish func(*Job)

	queue   chan *Job
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	started atomic.Bool
	db      *db.Connection
	log     *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// New returns a worker storing its jobs in dbconn. A queueLength < 1 means
// a queue of 1.
func New(dbconn *db.Connection, queueLength int) *Worker {
	if queueLength < 1 {
		queueLength = 1
	}
	w := new(Worker)
	w.queue = make(chan *Job, queueLength)
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	w.db = dbconn
	w.log = slog.Default()
	w.ctx, w.cancel = context.WithCancel(context.Background())
	return w
}

// SetLogger replaces the worker's logger.
func (w *Worker) SetLogger(l *slog.Logger) {
	if l != nil {
		w.log = l
	}
}

// Enqueue stores the job in the database and adds it to the queue. It never
// blocks: a full queue marks the job failed and returns ErrQueueFull without
// calling OnFinish.
func (w *Worker) Enqueue(j *Job) error {
	j.SubmitTime = time.Now()
	j.Status = db.StatusQueued
	if err := w.db.InsertDelivery(j.Delivery); err != nil {
		w.log.Error("Error inserting delivery into db", "session", j.SessionID, "error", err)
		return err
	}
	select {
	case w.queue <- j:
		return nil
	default:
		w.record(j, "", ErrQueueFull)
		return ErrQueueFull
	}
}

// Stop cancels the running job, if any, and stops the worker. Jobs still
// queued are not run.
func (w *Worker) Stop() {
	w.once.Do(func() {
		w.cancel()
		close(w.stop)
	})
	if w.started.Load() {
		<-w.done
	}
}

// record stores the outcome of a job.
func (w *Worker) record(j *Job, msg string, err error) {
	j.EndTime = time.Now()
	j.Message = msg
	if err == nil {
		j.Status = db.StatusDelivered
		j.Error = ""
		w.log.Info("Delivery finished", "id", j.ID, "session", j.SessionID, "duration", j.Duration())
	} else {
		j.Status = db.StatusFailed
		j.Error = err.Error()
		w.log.Warn("Delivery failed", "id", j.ID, "session", j.SessionID, "error", err)
	}
	if uerr := w.db.UpdateDelivery(j.Delivery); uerr != nil {
		w.log.Error("Error updating delivery in db", "id", j.ID, "error", uerr)
	}
}

func (w *Worker) run(j *Job) {
	w.log.Debug("Starting delivery", "id", j.ID, "session", j.SessionID)
	msg, err := w.Action(w.ctx, j.Values)
	w.record(j, msg, err)
	if w.OnFinish != nil {
		w.OnFinish(j)
	}
}

// Start runs queued jobs one at a time in a new goroutine.
func (w *Worker) Start() {
	if !w.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(w.done)
		for {
			select {
			case job := <-w.queue:
				w.run(job)
			case <-w.stop:
				return
			}
		}
	}()
	w.log.Info("Worker started")
}
