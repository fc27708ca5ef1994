package repository

import (
	"errors"
	"math"
	"strings"

	"github.com/Diome1804/projet-todo/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskRepository owns task rows and the delegated-permission relation.
type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

// Pagination describes one page of a task listing.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// TaskPatch is a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Name        *string
	Description *string
	Completed   *bool
	PhotoURL    *string
	AudioURL    *string
}

func (p TaskPatch) changes() map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Completed != nil {
		updates["completed"] = *p.Completed
	}
	if p.PhotoURL != nil {
		updates["photo_url"] = *p.PhotoURL
	}
	if p.AudioURL != nil {
		updates["audio_url"] = *p.AudioURL
	}
	return updates
}

// CanEdit reports whether userID owns the task or holds a grant with can_edit.
func (r *TaskRepository) CanEdit(taskID, userID uint) (bool, error) {
	return r.allowed(taskID, userID, "can_edit")
}

// CanDelete reports whether userID owns the task or holds a grant with can_delete.
func (r *TaskRepository) CanDelete(taskID, userID uint) (bool, error) {
	return r.allowed(taskID, userID, "can_delete")
}

// allowed resolves both the ownership lookup and the permission lookup before
// answering; a missing task simply yields false.
func (r *TaskRepository) allowed(taskID, userID uint, flag string) (bool, error) {
	var owned int64
	if err := r.DB.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Count(&owned).Error; err != nil {
		return false, err
	}

	var granted int64
	if err := r.DB.Model(&models.TaskPermission{}).
		Where("task_id = ? AND grantee_id = ? AND "+flag+" = ?", taskID, userID, true).
		Count(&granted).Error; err != nil {
		return false, err
	}

	return owned > 0 || granted > 0, nil
}

// Visible reports whether userID may view the task at all: owner, or grantee
// with any flag combination.
func (r *TaskRepository) Visible(taskID, userID uint) (bool, error) {
	var owned int64
	if err := r.DB.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", taskID, userID).
		Count(&owned).Error; err != nil {
		return false, err
	}

	var granted int64
	if err := r.DB.Model(&models.TaskPermission{}).
		Where("task_id = ? AND grantee_id = ?", taskID, userID).
		Count(&granted).Error; err != nil {
		return false, err
	}

	return owned > 0 || granted > 0, nil
}

// GrantPermission merges the provided flags into any existing grant for
// (taskID, granteeID). Only the task owner may grant. Flags left nil keep the
// stored value (false on a fresh grant). When the merged result has both flags
// false the row is deleted instead of stored. The read-merge-write sequence
// runs in one transaction and the write is a single upsert keyed on the
// composite unique index.
func (r *TaskRepository) GrantPermission(taskID, ownerID, granteeID uint, canEdit, canDelete *bool) error {
	var task models.Task
	if err := r.DB.Select("id", "user_id").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.UserID != ownerID {
		return ErrNotAllowed
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.TaskPermission
		err := tx.Where("task_id = ? AND grantee_id = ?", taskID, granteeID).
			First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		finalEdit := existing.CanEdit
		if canEdit != nil {
			finalEdit = *canEdit
		}
		finalDelete := existing.CanDelete
		if canDelete != nil {
			finalDelete = *canDelete
		}

		if !finalEdit && !finalDelete {
			return tx.Where("task_id = ? AND grantee_id = ?", taskID, granteeID).
				Delete(&models.TaskPermission{}).Error
		}

		perm := models.TaskPermission{
			TaskID:    taskID,
			GranteeID: granteeID,
			CanEdit:   finalEdit,
			CanDelete: finalDelete,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "task_id"}, {Name: "grantee_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"can_edit", "can_delete", "updated_at"}),
		}).Create(&perm).Error
	})
}

// RevokePermission removes the (taskID, granteeID) grant. Only the owner may
// revoke; revoking a grant that does not exist is a no-op.
func (r *TaskRepository) RevokePermission(taskID, ownerID, granteeID uint) error {
	var task models.Task
	if err := r.DB.Select("id", "user_id").First(&task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if task.UserID != ownerID {
		return ErrNotAllowed
	}

	return r.DB.Where("task_id = ? AND grantee_id = ?", taskID, granteeID).
		Delete(&models.TaskPermission{}).Error
}

// visibleQuery builds the shared predicate for the listing: tasks the user
// owns or is a grantee of, optionally narrowed by search and status. The count
// and the page fetch both go through here so they can never drift apart.
func (r *TaskRepository) visibleQuery(userID uint, search, status string) *gorm.DB {
	q := r.DB.Model(&models.Task{}).
		Where("(user_id = ? OR id IN (?))", userID,
			r.DB.Model(&models.TaskPermission{}).
				Select("task_id").
				Where("grantee_id = ?", userID))

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", like, like)
	}

	switch status {
	case "completed":
		q = q.Where("completed = ?", true)
	case "pending":
		q = q.Where("completed = ?", false)
	}
	// any other status value, including "all", applies no filter

	return q
}

// ListPage returns one page of tasks visible to userID, newest first, each
// annotated with the user's own grant when one exists.
func (r *TaskRepository) ListPage(userID uint, page, limit int, search, status string) ([]models.Task, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var totalItems int64
	if err := r.visibleQuery(userID, search, status).Count(&totalItems).Error; err != nil {
		return nil, Pagination{}, err
	}

	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	offset := (page - 1) * limit

	var tasks []models.Task
	if err := r.visibleQuery(userID, search, status).
		Preload("Permissions", "grantee_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tasks).Error; err != nil {
		return nil, Pagination{}, err
	}

	return tasks, Pagination{
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: limit,
		HasNextPage:  page < totalPages,
		HasPrevPage:  page > 1,
	}, nil
}

func (r *TaskRepository) FindByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.DB.First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Create(task *models.Task) error {
	return r.DB.Create(task).Error
}

// Update applies the patch after an edit-rights check and returns the
// refreshed row.
func (r *TaskRepository) Update(id, userID uint, patch TaskPatch) (*models.Task, error) {
	ok, err := r.CanEdit(id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAllowed
	}

	if updates := patch.changes(); len(updates) > 0 {
		if err := r.DB.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(id)
}

// Delete removes the task and its permission rows in one transaction. The
// grant rows must go explicitly: the schema carries no cascade. A missing
// task answers ErrTaskNotFound before any rights check, same as toggle.
func (r *TaskRepository) Delete(id, userID uint) error {
	var exists int64
	if err := r.DB.Model(&models.Task{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return err
	}
	if exists == 0 {
		return ErrTaskNotFound
	}

	ok, err := r.CanDelete(id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAllowed
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskPermission{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Task{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// ToggleCompleted flips the completed flag in a single conditional UPDATE so
// concurrent toggles cannot lose a read-then-write race. The caller must hold
// edit rights on the task.
func (r *TaskRepository) ToggleCompleted(id, userID uint) (*models.Task, error) {
	var exists int64
	if err := r.DB.Model(&models.Task{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrTaskNotFound
	}

	ok, err := r.CanEdit(id, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAllowed
	}

	res := r.DB.Model(&models.Task{}).
		Where("id = ?", id).
		Update("completed", gorm.Expr("NOT completed"))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTaskNotFound
	}
	return r.FindByID(id)
}
