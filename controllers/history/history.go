package history

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Diome1804/projet-todo/models"
	"github.com/Diome1804/projet-todo/repository"
	"github.com/Diome1804/projet-todo/utils"

	"gorm.io/gorm"
)

// Controller serves the audit-log listing endpoint.
type Controller struct {
	History *repository.HistoryRepository
}

func NewController(db *gorm.DB) *Controller {
	return &Controller{History: repository.NewHistoryRepository(db)}
}

// GET /history?taskId&actorId&action&from&to&page&pageSize
func (c *Controller) ListHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	q := r.URL.Query()
	var f repository.HistoryFilter

	if raw := q.Get("taskId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "taskId must be a positive integer"})
			return
		}
		f.TaskID = uint(id)
	}
	if raw := q.Get("actorId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || id == 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "actorId must be a positive integer"})
			return
		}
		f.ActorID = uint(id)
	}
	if raw := q.Get("action"); raw != "" {
		if !models.ValidAction(raw) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown action"})
			return
		}
		f.Action = raw
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "from must be an RFC3339 timestamp"})
			return
		}
		f.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "to must be an RFC3339 timestamp"})
			return
		}
		f.To = t
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.PageSize, _ = strconv.Atoi(q.Get("pageSize"))

	page, err := c.History.List(f)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Successfully", Data: page})
}
