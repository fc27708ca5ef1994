package models

import "time"

type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:191;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	PhotoURL    *string   `gorm:"type:varchar(255)" json:"photo_url"`
	AudioURL    *string   `gorm:"type:varchar(255)" json:"audio_url"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Permissions holds only the requesting user's grant when loaded by the
	// task listing; other paths leave it empty.
	Permissions []TaskPermission `gorm:"foreignKey:TaskID" json:"permissions,omitempty"`
}

// TaskPermission is a delegated grant on a task the grantee does not own.
// A row with both flags false is never stored: granting both-false deletes
// the row instead, so absence always means "no permission".
type TaskPermission struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_task_grantee" json:"task_id"`
	GranteeID uint      `gorm:"not null;uniqueIndex:idx_task_grantee" json:"grantee_id"`
	CanEdit   bool      `gorm:"default:false" json:"can_edit"`
	CanDelete bool      `gorm:"default:false" json:"can_delete"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
