package models

import "time"

// Action kinds recorded in the audit log.
const (
	ActionCreate   = "CREATE"
	ActionUpdate   = "UPDATE"
	ActionDelete   = "DELETE"
	ActionComplete = "COMPLETE"
)

// ActionLog is append-only: rows are created by the history repository and
// never updated or deleted.
type ActionLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index" json:"task_id"`
	ActorID   uint      `gorm:"index" json:"actor_id"`
	Action    string    `gorm:"size:20;not null;index" json:"action"`
	Details   *string   `gorm:"type:varchar(500)" json:"details"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// ValidAction reports whether s is one of the recorded action kinds.
func ValidAction(s string) bool {
	switch s {
	case ActionCreate, ActionUpdate, ActionDelete, ActionComplete:
		return true
	}
	return false
}
