package tasks

import (
	"log"
	"net/http"
	"strconv"

	"github.com/Diome1804/projet-todo/repository"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// Controller serves the task CRUD, permission delegation and listing
// endpoints.
type Controller struct {
	Tasks   *repository.TaskRepository
	Users   *repository.UserRepository
	History *repository.HistoryRepository
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{
		Tasks:   repository.NewTaskRepository(db),
		Users:   repository.NewUserRepository(db),
		History: repository.NewHistoryRepository(db),
	}
}

// taskIDFromRequest parses the {id} path variable. Zero means invalid.
func taskIDFromRequest(r *http.Request) uint {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0
	}
	return uint(id)
}

// logAction appends an audit row. Logging never fails the request.
func (c *Controller) logAction(taskID, actorID uint, action string, details string) {
	var d *string
	if details != "" {
		d = &details
	}
	if err := c.History.Log(taskID, actorID, action, d); err != nil {
		log.Printf("[history] log %s task=%d actor=%d: %v", action, taskID, actorID, err)
	}
}
