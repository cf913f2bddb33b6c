package manager

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/internal/export/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
	"github.com/gemdesk/inventory-service/pkg/logger"
)

// Options configures the export job manager
type Options struct {
	Dir          string
	BaseURL      string
	Workers      int
	QueueSize    int
	StaleAfter   time.Duration
	ReapInterval time.Duration
}

// DefaultOptions returns the default manager configuration
func DefaultOptions(dir string) Options {
	return Options{
		Dir:          dir,
		BaseURL:      "/exports",
		Workers:      2,
		QueueSize:    64,
		StaleAfter:   5 * time.Minute,
		ReapInterval: 30 * time.Second,
	}
}

// Manager owns the asynchronous export lifecycle: a worker pool consuming a
// job queue plus a timer-driven reaper for stalled jobs. No two jobs share
// mutable state; each job is mutated only by its worker and the
// cancel/reaper paths, all through short-lived row updates.
type Manager struct {
	repo   domain.ExportJobRepository
	source Source
	opts   Options

	queue chan string
	stop  chan struct{}
	wg    sync.WaitGroup

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewManager creates an export job manager
func NewManager(repo domain.ExportJobRepository, source Source, opts Options) *Manager {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 5 * time.Minute
	}
	if opts.ReapInterval <= 0 {
		opts.ReapInterval = 30 * time.Second
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "/exports"
	}
	return &Manager{
		repo:    repo,
		source:  source,
		opts:    opts,
		queue:   make(chan string, opts.QueueSize),
		stop:    make(chan struct{}),
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start launches the worker pool and the reaper
func (m *Manager) Start() {
	for i := 0; i < m.opts.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	m.wg.Add(1)
	go m.reaper()

	logger.Logger.Info().
		Int("workers", m.opts.Workers).
		Dur("stale_after", m.opts.StaleAfter).
		Str("dir", m.opts.Dir).
		Msg("Export job manager started")
}

// Stop shuts the manager down and waits for in-flight jobs to finish
func (m *Manager) Stop() {
	close(m.stop)
	m.wg.Wait()
}

// SubmitRequest describes a new export job
type SubmitRequest struct {
	Format    string
	DataTypes []string
	DateRange domain.DateRange
	CreatedBy string
}

// Submit validates the request, persists a pending job and enqueues it. It
// returns immediately; callers poll Get/History for progress.
func (m *Manager) Submit(req SubmitRequest) (*domain.ExportJob, error) {
	var violations []string
	if !domain.ValidFormat(req.Format) {
		violations = append(violations, fmt.Sprintf("unsupported format '%s'", req.Format))
	}
	if len(req.DataTypes) == 0 {
		violations = append(violations, "at least one data type is required")
	}
	seen := make(map[string]bool, len(req.DataTypes))
	dataTypes := make([]string, 0, len(req.DataTypes))
	for _, dt := range req.DataTypes {
		if !domain.ValidDataType(dt) {
			violations = append(violations, fmt.Sprintf("unknown data type '%s'", dt))
			continue
		}
		if !seen[dt] {
			seen[dt] = true
			dataTypes = append(dataTypes, dt)
		}
	}
	if !req.DateRange.From.IsZero() && !req.DateRange.To.IsZero() && req.DateRange.To.Before(req.DateRange.From) {
		violations = append(violations, "date_range.to must not be before date_range.from")
	}
	if len(violations) > 0 {
		return nil, apperrors.NewValidation(violations...)
	}

	job := &domain.ExportJob{
		ID:             uuid.NewString(),
		Format:         req.Format,
		DataTypes:      dataTypes,
		DateRange:      req.DateRange,
		Status:         domain.StatusPending,
		Progress:       0,
		CreatedBy:      req.CreatedBy,
		CreatedAt:      time.Now(),
		LastProgressAt: time.Now(),
	}

	if err := m.repo.Create(job); err != nil {
		return nil, fmt.Errorf("failed to persist export job: %w", err)
	}

	select {
	case m.queue <- job.ID:
	default:
		// Queue full; fail the job instead of blocking the submitter
		if _, err := m.repo.MarkFailed(job.ID, "export queue is full"); err != nil {
			return nil, fmt.Errorf("failed to reject export job: %w", err)
		}
		return nil, apperrors.NewState("export queue is full")
	}

	return job, nil
}

// Get returns one job by id
func (m *Manager) Get(id string) (*domain.ExportJob, error) {
	job, err := m.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("export job", id)
		}
		return nil, fmt.Errorf("failed to load export job: %w", err)
	}
	return job, nil
}

// History returns the most recent jobs
func (m *Manager) History(limit, offset int) ([]domain.ExportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return m.repo.FindAll(limit, offset)
}

// Cancel moves a pending or processing job to failed with a distinguished
// message. Cancelling a terminal job is a no-op, not an error.
func (m *Manager) Cancel(id string) error {
	job, err := m.Get(id)
	if err != nil {
		return err
	}
	if job.IsTerminal() {
		return nil
	}

	if _, err := m.repo.MarkFailed(id, domain.ErrorMessageCancelled); err != nil {
		return fmt.Errorf("failed to cancel export job: %w", err)
	}

	m.mu.Lock()
	if cancel, ok := m.cancels[id]; ok {
		cancel()
	}
	m.mu.Unlock()

	logger.Logger.Info().Str("job_id", id).Msg("Export job cancelled")
	return nil
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.stop:
			return
		case jobID := <-m.queue:
			m.run(jobID)
		}
	}
}

// run executes one job end to end. Errors are captured into the job record,
// never propagated to the submitter.
func (m *Manager) run(jobID string) {
	started, err := m.repo.MarkProcessing(jobID)
	if err != nil {
		logger.Logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to start export job")
		return
	}
	if !started {
		// Cancelled while still queued
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancels[jobID] = cancel
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.cancels, jobID)
		m.mu.Unlock()
		cancel()
	}()

	job, err := m.repo.FindByID(jobID)
	if err != nil {
		m.fail(jobID, fmt.Sprintf("failed to reload job: %v", err))
		return
	}

	path := filepath.Join(m.opts.Dir, jobID+"."+job.Format)
	if err := m.materialize(ctx, job, path); err != nil {
		os.Remove(path)
		if errors.Is(err, context.Canceled) {
			// Cancel already marked the job failed
			return
		}
		m.fail(jobID, err.Error())
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		m.fail(jobID, fmt.Sprintf("failed to stat artifact: %v", err))
		return
	}

	completed, err := m.repo.MarkCompleted(jobID, m.opts.BaseURL+"/"+filepath.Base(path), info.Size())
	if err != nil {
		logger.Logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to complete export job")
		return
	}
	if !completed {
		// Lost the race against cancel; drop the artifact
		os.Remove(path)
		return
	}

	logger.Logger.Info().
		Str("job_id", jobID).
		Str("format", job.Format).
		Int64("file_size", info.Size()).
		Msg("Export job completed")
}

// materialize streams every requested data type into the artifact file,
// bumping progress after each completed section
func (m *Manager) materialize(ctx context.Context, job *domain.ExportJob, path string) error {
	if err := os.MkdirAll(m.opts.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %v", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create artifact: %v", err)
	}
	defer file.Close()

	var csvWriter *csv.Writer
	jsonSections := make(map[string]interface{}, len(job.DataTypes))
	if job.Format == domain.FormatCSV {
		csvWriter = csv.NewWriter(file)
	}

	total := len(job.DataTypes)
	for i, dataType := range job.DataTypes {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := fetchSection(m.source, dataType, job.DateRange)
		if err != nil {
			return fmt.Errorf("failed to export %s: %v", dataType, err)
		}

		switch job.Format {
		case domain.FormatCSV:
			if err := writeCSVSection(csvWriter, dataType, records); err != nil {
				return fmt.Errorf("failed to write %s section: %v", dataType, err)
			}
		case domain.FormatJSON:
			jsonSections[dataType] = records
		}

		progress := (i + 1) * 100 / total
		if err := m.repo.UpdateProgress(job.ID, progress); err != nil {
			logger.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("Failed to update progress")
		}
	}

	if job.Format == domain.FormatJSON {
		if err := writeJSON(file, jsonSections); err != nil {
			return fmt.Errorf("failed to encode artifact: %v", err)
		}
	}

	return nil
}

func (m *Manager) fail(jobID, message string) {
	if _, err := m.repo.MarkFailed(jobID, message); err != nil {
		logger.Logger.Error().Err(err).Str("job_id", jobID).Msg("Failed to mark export job failed")
		return
	}
	logger.Logger.Warn().Str("job_id", jobID).Str("error", message).Msg("Export job failed")
}

// reaper periodically fails processing jobs whose last progress update is
// older than the staleness timeout
func (m *Manager) reaper() {
	defer m.wg.Done()
	ticker := time.NewTicker(m.opts.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.reapOnce()
		}
	}
}

func (m *Manager) reapOnce() {
	cutoff := time.Now().Add(-m.opts.StaleAfter)
	stale, err := m.repo.FindStale(cutoff)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Reaper failed to list stale jobs")
		return
	}

	for _, job := range stale {
		timeoutErr := apperrors.NewTimeout(
			"export stalled: no progress since %s", job.LastProgressAt.Format(time.RFC3339))
		if _, err := m.repo.MarkFailed(job.ID, timeoutErr.Error()); err != nil {
			logger.Logger.Error().Err(err).Str("job_id", job.ID).Msg("Reaper failed to fail job")
			continue
		}

		m.mu.Lock()
		if cancel, ok := m.cancels[job.ID]; ok {
			cancel()
		}
		m.mu.Unlock()

		logger.Logger.Warn().
			Str("job_id", job.ID).
			Time("last_progress_at", job.LastProgressAt).
			Msg("Reaper failed stalled export job")
	}
}
