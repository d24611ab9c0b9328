package repository

import (
	"errors"
	"fmt"
	"sync"

	"rail-risk-go/internal/model"

	"gorm.io/gorm"
)

// ErrRunNotFound возвращается, если запись журнала не найдена
var ErrRunNotFound = errors.New("computation run not found")

// RunFilter фильтр списка записей журнала
type RunFilter struct {
	Kind string // пусто - все виды
}

// RunRepository интерфейс для работы с журналом расчетов
type RunRepository interface {
	Create(run *model.ComputationRun) error
	GetByID(id string) (*model.ComputationRun, error)
	List(filter RunFilter, page, pageSize int) ([]*model.ComputationRun, int64, error)
	Delete(id string) error
}

// runRepository реализация RunRepository на GORM
type runRepository struct {
	db *gorm.DB
}

// NewRunRepository создает новый instance RunRepository
func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{
		db: db,
	}
}

// Create сохраняет запись журнала
func (r *runRepository) Create(run *model.ComputationRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetByID получает запись по ID
func (r *runRepository) GetByID(id string) (*model.ComputationRun, error) {
	var run model.ComputationRun
	err := r.db.Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// List получает список записей с пагинацией, новые первыми
func (r *runRepository) List(filter RunFilter, page, pageSize int) ([]*model.ComputationRun, int64, error) {
	var runs []*model.ComputationRun
	var total int64

	query := r.db.Model(&model.ComputationRun{})
	if filter.Kind != "" {
		query = query.Where("kind = ?", filter.Kind)
	}

	// Подсчитываем общее количество
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	offset := (page - 1) * pageSize
	err := query.
		Omit("payload").
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&runs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, total, nil
}

// Delete удаляет запись по ID
func (r *runRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.ComputationRun{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// DefaultMemoryRunLimit число записей, которое журнал в памяти хранит по умолчанию
const DefaultMemoryRunLimit = 1000

// MemoryRunRepository хранит последние limit записей журнала в памяти процесса.
// Используется, когда база данных отключена. Старые записи вытесняются.
type MemoryRunRepository struct {
	mu    sync.Mutex
	runs  []*model.ComputationRun
	limit int
}

// NewMemoryRunRepository создает пустой журнал в памяти.
// limit <= 0 означает DefaultMemoryRunLimit.
func NewMemoryRunRepository(limit int) *MemoryRunRepository {
	return &MemoryRunRepository{limit: limit}
}

// Create сохраняет копию записи, вытесняя самую старую при переполнении
func (r *MemoryRunRepository) Create(run *model.ComputationRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := r.limit
	if limit <= 0 {
		limit = DefaultMemoryRunLimit
	}

	if len(r.runs) >= limit {
		drop := len(r.runs) - limit + 1
		n := copy(r.runs, r.runs[drop:])
		clear(r.runs[n:])
		r.runs = r.runs[:n]
	}

	stored := *run
	r.runs = append(r.runs, &stored)
	return nil
}

// GetByID получает запись по ID
func (r *MemoryRunRepository) GetByID(id string) (*model.ComputationRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, run := range r.runs {
		if run.ID == id {
			found := *run
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
}

// List получает записи с пагинацией, новые первыми
func (r *MemoryRunRepository) List(filter RunFilter, page, pageSize int) ([]*model.ComputationRun, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []*model.ComputationRun
	for i := len(r.runs) - 1; i >= 0; i-- {
		if filter.Kind == "" || r.runs[i].Kind == filter.Kind {
			item := *r.runs[i]
			item.Payload = ""
			matched = append(matched, &item)
		}
	}

	total := int64(len(matched))
	offset := (page - 1) * pageSize
	if offset >= len(matched) {
		return []*model.ComputationRun{}, total, nil
	}
	end := offset + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// Delete удаляет запись по ID
func (r *MemoryRunRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, run := range r.runs {
		if run.ID == id {
			r.runs = append(r.runs[:i], r.runs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRunNotFound, id)
}
