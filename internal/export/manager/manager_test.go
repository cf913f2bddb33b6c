package manager

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	alertdomain "github.com/gemdesk/inventory-service/internal/alert/domain"
	categorydomain "github.com/gemdesk/inventory-service/internal/category/domain"
	"github.com/gemdesk/inventory-service/internal/export/domain"
	itemdomain "github.com/gemdesk/inventory-service/internal/item/domain"
	"github.com/gemdesk/inventory-service/pkg/apperrors"
)

// fakeJobRepository is an in-memory ExportJobRepository enforcing the same
// guarded state machine as the SQL implementation
type fakeJobRepository struct {
	mu   sync.Mutex
	jobs map[string]*domain.ExportJob
}

func newFakeJobRepository() *fakeJobRepository {
	return &fakeJobRepository{jobs: make(map[string]*domain.ExportJob)}
}

func (r *fakeJobRepository) Create(job *domain.ExportJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *job
	r.jobs[job.ID] = &copied
	return nil
}

func (r *fakeJobRepository) FindByID(id string) (*domain.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *fakeJobRepository) FindAll(limit, offset int) ([]domain.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.ExportJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		all = append(all, *job)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeJobRepository) MarkProcessing(id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != domain.StatusPending {
		return false, nil
	}
	now := time.Now()
	job.Status = domain.StatusProcessing
	job.StartedAt = &now
	job.LastProgressAt = now
	return true, nil
}

func (r *fakeJobRepository) UpdateProgress(id string, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != domain.StatusProcessing || progress <= job.Progress {
		return nil
	}
	job.Progress = progress
	job.LastProgressAt = time.Now()
	return nil
}

func (r *fakeJobRepository) MarkCompleted(id string, downloadURL string, fileSize int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.Status != domain.StatusProcessing {
		return false, nil
	}
	now := time.Now()
	job.Status = domain.StatusCompleted
	job.Progress = 100
	job.CompletedAt = &now
	job.DownloadURL = downloadURL
	job.FileSize = fileSize
	return true, nil
}

func (r *fakeJobRepository) MarkFailed(id string, errorMessage string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok || job.IsTerminal() {
		return false, nil
	}
	now := time.Now()
	job.Status = domain.StatusFailed
	job.CompletedAt = &now
	job.ErrorMessage = errorMessage
	return true, nil
}

func (r *fakeJobRepository) FindStale(cutoff time.Time) ([]domain.ExportJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ExportJob
	for _, job := range r.jobs {
		if job.Status == domain.StatusProcessing && job.LastProgressAt.Before(cutoff) {
			out = append(out, *job)
		}
	}
	return out, nil
}

// fakeSource serves canned data; gate, when set, blocks Items until released
type fakeSource struct {
	gate    chan struct{}
	itemErr error
}

func (s *fakeSource) Items() ([]itemdomain.InventoryItem, error) {
	if s.gate != nil {
		<-s.gate
	}
	if s.itemErr != nil {
		return nil, s.itemErr
	}
	return []itemdomain.InventoryItem{
		{ID: 1, SKU: "RING-001", Name: "Gold Ring", StockQuantity: 2, MinStockLevel: 10, CostPrice: 100, IsActive: true},
	}, nil
}

func (s *fakeSource) Categories() ([]categorydomain.Category, error) {
	return []categorydomain.Category{{ID: 1, Name: "Jewelry", IsActive: true}}, nil
}

func (s *fakeSource) Movements(from, to time.Time) ([]itemdomain.InventoryMovement, error) {
	return []itemdomain.InventoryMovement{{ID: 1, ItemID: 1, Type: "purchase", QuantityDelta: 2}}, nil
}

func (s *fakeSource) Alerts() ([]alertdomain.LowStockAlert, error) {
	return []alertdomain.LowStockAlert{{ItemID: 1, AlertLevel: alertdomain.LevelCritical}}, nil
}

func testOptions(t *testing.T) Options {
	opts := DefaultOptions(t.TempDir())
	opts.Workers = 1
	opts.ReapInterval = time.Hour
	return opts
}

func TestSubmitValidation(t *testing.T) {
	m := NewManager(newFakeJobRepository(), &fakeSource{}, testOptions(t))

	_, err := m.Submit(SubmitRequest{Format: "xlsx", DataTypes: []string{"items", "orders"}})
	require.Error(t, err)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "unsupported format 'xlsx'")
	assert.Contains(t, verr.Violations, "unknown data type 'orders'")

	_, err = m.Submit(SubmitRequest{Format: domain.FormatCSV})
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "at least one data type is required")

	_, err = m.Submit(SubmitRequest{
		Format:    domain.FormatCSV,
		DataTypes: []string{"items"},
		DateRange: domain.DateRange{
			From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
	})
	require.Error(t, err)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Violations, "date_range.to must not be before date_range.from")
}

func TestSubmitDeduplicatesDataTypes(t *testing.T) {
	m := NewManager(newFakeJobRepository(), &fakeSource{}, testOptions(t))

	job, err := m.Submit(SubmitRequest{
		Format:    domain.FormatJSON,
		DataTypes: []string{"items", "items", "alerts"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"items", "alerts"}, job.DataTypes)
	assert.Equal(t, domain.StatusPending, job.Status)
}

func TestJobLifecycleCompletes(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	m := NewManager(repo, &fakeSource{}, opts)
	m.Start()
	defer m.Stop()

	job, err := m.Submit(SubmitRequest{
		Format:    domain.FormatJSON,
		DataTypes: []string{"items", "categories", "movements", "alerts"},
		CreatedBy: "selin",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := m.Get(job.ID)
		return err == nil && current.Status == domain.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	current, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, current.Progress)
	assert.Equal(t, opts.BaseURL+"/"+job.ID+".json", current.DownloadURL)
	assert.Positive(t, current.FileSize)
	assert.NotNil(t, current.CompletedAt)

	data, err := os.ReadFile(filepath.Join(opts.Dir, job.ID+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"items\"")
	assert.Contains(t, string(data), "RING-001")
}

func TestJobLifecycleCSV(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	m := NewManager(repo, &fakeSource{}, opts)
	m.Start()
	defer m.Stop()

	job, err := m.Submit(SubmitRequest{Format: domain.FormatCSV, DataTypes: []string{"items"}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := m.Get(job.ID)
		return err == nil && current.Status == domain.StatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	data, err := os.ReadFile(filepath.Join(opts.Dir, job.ID+".csv"))
	require.NoError(t, err)
	content := string(data)
	assert.True(t, strings.HasPrefix(content, "#,items\n"), "section marker row leads the artifact")
	assert.Contains(t, content, "RING-001")
}

func TestJobFailureCapturesError(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	m := NewManager(repo, &fakeSource{itemErr: assert.AnError}, opts)
	m.Start()
	defer m.Stop()

	job, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := m.Get(job.ID)
		return err == nil && current.Status == domain.StatusFailed
	}, 2*time.Second, 10*time.Millisecond)

	current, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Contains(t, current.ErrorMessage, "failed to export items")

	_, err = os.Stat(filepath.Join(opts.Dir, job.ID+".json"))
	assert.True(t, os.IsNotExist(err), "failed jobs leave no artifact behind")
}

func TestQueueFullRejectsSubmit(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	opts.QueueSize = 1
	// not started: the queue only drains when workers run
	m := NewManager(repo, &fakeSource{}, opts)

	first, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)

	second, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
	require.Error(t, err)
	assert.Nil(t, second)
	assert.True(t, apperrors.IsState(err))

	jobs, err := m.History(10, 0)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	var failed int
	for _, job := range jobs {
		if job.Status == domain.StatusFailed {
			failed++
			assert.Equal(t, "export queue is full", job.ErrorMessage)
		}
	}
	assert.Equal(t, 1, failed)
}

func TestCancelPendingJob(t *testing.T) {
	repo := newFakeJobRepository()
	m := NewManager(repo, &fakeSource{}, testOptions(t))

	job, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
	require.NoError(t, err)

	require.NoError(t, m.Cancel(job.ID))

	current, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, current.Status)
	assert.Equal(t, domain.ErrorMessageCancelled, current.ErrorMessage)

	// cancelling a terminal job is a no-op
	require.NoError(t, m.Cancel(job.ID))
	again, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, current.CompletedAt, again.CompletedAt)
}

func TestCancelledWhileQueuedIsNeverProcessed(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	m := NewManager(repo, &fakeSource{}, opts)

	job, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
	require.NoError(t, err)
	require.NoError(t, m.Cancel(job.ID))

	m.Start()
	defer m.Stop()
	time.Sleep(100 * time.Millisecond)

	current, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, current.Status)
	assert.Equal(t, domain.ErrorMessageCancelled, current.ErrorMessage)

	_, err = os.Stat(filepath.Join(opts.Dir, job.ID+".json"))
	assert.True(t, os.IsNotExist(err))
}

func TestCancelProcessingJob(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	gate := make(chan struct{})
	m := NewManager(repo, &fakeSource{gate: gate}, opts)
	m.Start()
	defer m.Stop()

	job, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items", "alerts"}})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		current, err := m.Get(job.ID)
		return err == nil && current.Status == domain.StatusProcessing
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Cancel(job.ID))
	close(gate)

	require.Eventually(t, func() bool {
		m.mu.Lock()
		_, inFlight := m.cancels[job.ID]
		m.mu.Unlock()
		return !inFlight
	}, 2*time.Second, 10*time.Millisecond)

	current, err := m.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, current.Status)
	assert.Equal(t, domain.ErrorMessageCancelled, current.ErrorMessage)

	_, err = os.Stat(filepath.Join(opts.Dir, job.ID+".json"))
	assert.True(t, os.IsNotExist(err), "cancelled jobs leave no artifact behind")
}

func TestReaperFailsStalledJobs(t *testing.T) {
	repo := newFakeJobRepository()
	opts := testOptions(t)
	opts.StaleAfter = time.Minute
	m := NewManager(repo, &fakeSource{}, opts)

	stale := &domain.ExportJob{
		ID:             "stale-job",
		Format:         domain.FormatJSON,
		DataTypes:      []string{"items"},
		Status:         domain.StatusProcessing,
		CreatedAt:      time.Now().Add(-10 * time.Minute),
		LastProgressAt: time.Now().Add(-10 * time.Minute),
	}
	require.NoError(t, repo.Create(stale))

	fresh := &domain.ExportJob{
		ID:             "fresh-job",
		Format:         domain.FormatJSON,
		DataTypes:      []string{"items"},
		Status:         domain.StatusProcessing,
		CreatedAt:      time.Now(),
		LastProgressAt: time.Now(),
	}
	require.NoError(t, repo.Create(fresh))

	m.reapOnce()

	reaped, err := m.Get("stale-job")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, reaped.Status)
	assert.Contains(t, reaped.ErrorMessage, "export stalled: no progress since")

	untouched, err := m.Get("fresh-job")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, untouched.Status)
}

func TestGetAndHistory(t *testing.T) {
	repo := newFakeJobRepository()
	m := NewManager(repo, &fakeSource{}, testOptions(t))

	_, err := m.Get("missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	for i := 0; i < 3; i++ {
		_, err := m.Submit(SubmitRequest{Format: domain.FormatJSON, DataTypes: []string{"items"}})
		require.NoError(t, err)
	}

	jobs, err := m.History(2, 0)
	require.NoError(t, err)
	assert.Len(t, jobs, 2)

	jobs, err = m.History(0, -1)
	require.NoError(t, err)
	assert.Len(t, jobs, 3, "non-positive limit falls back to the default page size")
}
