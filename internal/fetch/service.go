package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cmbt/covid19-webclient/internal/model"
)

const (
	// TaskIDPrefix is prepended to every fetch task ID
	TaskIDPrefix = "fetch-"

	// MaxHistory is the number of finished and running tasks kept
	MaxHistory = 20
)

var _ Fetcher = (*Service)(nil)

// ErrNoClient is reported when a request is submitted before a client is set
var ErrNoClient = errors.New("no chart client configured")

// Service runs one chart fetch at a time
type Service struct {
	mu       sync.Mutex
	client   ChartClient
	current  *model.FetchTask
	cancel   context.CancelFunc
	history  []*model.FetchTask
	onUpdate func(*model.FetchTask) // callback for UI updates
	log      logrus.FieldLogger
	wg       sync.WaitGroup
}

// Option configures a Service
type Option func(*Service)

// WithLogger sets the logger used by the service
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates a fetch service using client, which may be nil until
// SetClient is called.
func NewService(client ChartClient, opts ...Option) *Service {
	s := &Service{
		client: client,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates. The callback
// runs on the fetch goroutine and receives a copy of the task.
func (s *Service) SetUpdateCallback(callback func(*model.FetchTask)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// SetClient replaces the chart client. A fetch already running keeps the
// client it started with.
func (s *Service) SetClient(client ChartClient) {
	s.mu.Lock()
	s.client = client
	s.mu.Unlock()
}

// Submit cancels the running fetch, if any, and starts a new one for req.
// The returned task is a snapshot taken before the fetch starts.
func (s *Service) Submit(req model.ChartRequest) *model.FetchTask {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	task := &model.FetchTask{
		ID:        generateTaskID(),
		Request:   req,
		Status:    model.FetchStatusPending,
		StartedAt: time.Now(),
	}
	s.current = task
	s.history = append(s.history, task)
	if len(s.history) > MaxHistory {
		s.history = s.history[len(s.history)-MaxHistory:]
	}

	client := s.client
	if client == nil {
		task.Status = model.FetchStatusError
		task.Err = ErrNoClient
		task.LastError = ErrNoClient.Error()
		task.FinishedAt = task.StartedAt
		snapshot := *task
		s.mu.Unlock()

		s.log.WithField("task", task.ID).Warn("fetch submitted without a chart client")
		s.notifyUpdate(&snapshot)
		return &snapshot
	}

	task.URL = client.BuildURL(req)
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	snapshot := *task
	s.wg.Add(1)
	s.mu.Unlock()

	s.notifyUpdate(&snapshot)
	go s.run(ctx, cancel, client, task)

	return &snapshot
}

// Cancel stops the running fetch. It is a no-op when nothing is in flight.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Current returns a copy of the most recently submitted task
func (s *Service) Current() (*model.FetchTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false
	}
	snapshot := *s.current
	return &snapshot, true
}

// History returns copies of the most recent tasks, oldest first
func (s *Service) History() []*model.FetchTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := make([]*model.FetchTask, 0, len(s.history))
	for _, task := range s.history {
		snapshot := *task
		tasks = append(tasks, &snapshot)
	}
	return tasks
}

// Wait blocks until every started fetch has finished
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) run(ctx context.Context, cancel context.CancelFunc, client ChartClient, task *model.FetchTask) {
	defer s.wg.Done()
	defer cancel()

	log := s.log.WithFields(logrus.Fields{"task": task.ID, "url": task.URL})

	s.mu.Lock()
	if ctx.Err() != nil {
		s.finishLocked(task, model.FetchStatusCancelled, nil, nil)
		snapshot := *task
		s.mu.Unlock()
		log.Debug("fetch cancelled before start")
		s.notifyUpdate(&snapshot)
		return
	}
	task.Status = model.FetchStatusFetching
	snapshot := *task
	s.mu.Unlock()
	s.notifyUpdate(&snapshot)

	result, err := client.FetchChart(ctx, task.Request)

	s.mu.Lock()
	switch {
	case ctx.Err() != nil:
		// A superseded result is never reported as completed
		s.finishLocked(task, model.FetchStatusCancelled, nil, nil)
		log.Debug("fetch cancelled")
	case err != nil:
		s.finishLocked(task, model.FetchStatusError, nil, err)
		log.WithError(err).Warn("fetch failed")
	default:
		s.finishLocked(task, model.FetchStatusCompleted, result, nil)
		log.WithField("elapsed", task.Elapsed().Round(time.Millisecond)).Info("fetch completed")
	}
	if s.current == task {
		s.cancel = nil
	}
	snapshot = *task
	s.mu.Unlock()

	s.notifyUpdate(&snapshot)
}

func (s *Service) finishLocked(task *model.FetchTask, status model.FetchStatus, result *model.ChartResult, err error) {
	task.Status = status
	task.Result = result
	task.Err = err
	if err != nil {
		task.LastError = err.Error()
	}
	task.FinishedAt = time.Now()
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.FetchTask) {
	s.mu.Lock()
	callback := s.onUpdate
	s.mu.Unlock()
	if callback != nil {
		callback(task)
	}
}

// generateTaskID generates a unique, time-ordered task ID
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
