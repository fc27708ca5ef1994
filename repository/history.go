package repository

import (
	"math"
	"time"

	"github.com/Diome1804/projet-todo/models"

	"gorm.io/gorm"
)

const (
	defaultHistoryPageSize = 20
	maxHistoryPageSize     = 100
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

// HistoryFilter narrows the audit listing. Zero values mean "no filter".
type HistoryFilter struct {
	TaskID   uint
	ActorID  uint
	Action   string
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}

// HistoryEntry is one audit row joined with its actor and task summaries.
// ActorEmail and TaskName are empty when the referenced row no longer exists;
// the log itself is never pruned.
type HistoryEntry struct {
	ID         uint      `json:"id"`
	TaskID     uint      `json:"task_id"`
	ActorID    uint      `json:"actor_id"`
	Action     string    `json:"action"`
	Details    *string   `json:"details"`
	CreatedAt  time.Time `json:"created_at"`
	ActorEmail string    `json:"actor_email"`
	TaskName   string    `json:"task_name"`
}

type HistoryPage struct {
	Items      []HistoryEntry `json:"items"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
}

// Log appends one audit row. The log is write-once: nothing in this
// repository updates or deletes rows.
func (r *HistoryRepository) Log(taskID, actorID uint, action string, details *string) error {
	entry := models.ActionLog{
		TaskID:  taskID,
		ActorID: actorID,
		Action:  action,
		Details: details,
	}
	return r.DB.Create(&entry).Error
}

func (r *HistoryRepository) filtered(f HistoryFilter) *gorm.DB {
	q := r.DB.Model(&models.ActionLog{})
	if f.TaskID != 0 {
		q = q.Where("action_logs.task_id = ?", f.TaskID)
	}
	if f.ActorID != 0 {
		q = q.Where("action_logs.actor_id = ?", f.ActorID)
	}
	if f.Action != "" {
		q = q.Where("action_logs.action = ?", f.Action)
	}
	if !f.From.IsZero() {
		q = q.Where("action_logs.created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		q = q.Where("action_logs.created_at <= ?", f.To)
	}
	return q
}

// List returns one page of the audit log, newest first, with the same filter
// applied to the count and the fetch.
func (r *HistoryRepository) List(f HistoryFilter) (*HistoryPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultHistoryPageSize
	}
	if pageSize > maxHistoryPageSize {
		pageSize = maxHistoryPageSize
	}

	var total int64
	if err := r.filtered(f).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]HistoryEntry, 0, pageSize)
	if err := r.filtered(f).
		Select("action_logs.id, action_logs.task_id, action_logs.actor_id, action_logs.action, "+
			"action_logs.details, action_logs.created_at, "+
			"users.email AS actor_email, tasks.name AS task_name").
		Joins("LEFT JOIN users ON users.id = action_logs.actor_id").
		Joins("LEFT JOIN tasks ON tasks.id = action_logs.task_id").
		Order("action_logs.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(&items).Error; err != nil {
		return nil, err
	}

	return &HistoryPage{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}
