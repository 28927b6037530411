package persistence

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
)

const DefaultCapacity = 500

// ActionLogRepository keeps the most recent entries of the session in
// memory, newest first. The oldest entry is dropped once capacity is reached.
type ActionLogRepository struct {
	mu       sync.RWMutex
	capacity int
	logs     []*actionlog.ActionLog
}

func NewActionLogRepository(capacity int) actionlog.Repository {
	return newActionLogRepository(capacity)
}

func newActionLogRepository(capacity int) *ActionLogRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &ActionLogRepository{capacity: capacity}
}

func (r *ActionLogRepository) List(ctx context.Context, params *actionlog.FindParams) ([]*actionlog.ActionLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*actionlog.ActionLog
	for _, l := range r.logs {
		if params.Match(l) {
			cp := *l
			matched = append(matched, &cp)
		}
	}
	if params == nil {
		return matched, nil
	}
	start := min(max(params.Offset, 0), len(matched))
	matched = matched[start:]
	if params.Limit > 0 && len(matched) > params.Limit {
		matched = matched[:params.Limit]
	}
	return matched, nil
}

func (r *ActionLogRepository) Count(ctx context.Context, params *actionlog.FindParams) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, l := range r.logs {
		if params.Match(l) {
			n++
		}
	}
	return n, nil
}

func (r *ActionLogRepository) Create(ctx context.Context, log *actionlog.ActionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	r.push(*log)
	return nil
}

func (r *ActionLogRepository) push(l actionlog.ActionLog) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append([]*actionlog.ActionLog{&l}, r.logs...)
	if len(r.logs) > r.capacity {
		r.logs = r.logs[:r.capacity]
	}
}

// snapshot returns the retained entries oldest first.
func (r *ActionLogRepository) snapshot() []actionlog.ActionLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]actionlog.ActionLog, 0, len(r.logs))
	for i := len(r.logs) - 1; i >= 0; i-- {
		out = append(out, *r.logs[i])
	}
	return out
}
