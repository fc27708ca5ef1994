package tasks

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/Diome1804/projet-todo/utils"
)

// defaultPageSize reads TASK_PAGE_SIZE so the default can be tuned per
// deployment instead of living as a literal in two places.
func defaultPageSize() int {
	if s := os.Getenv("TASK_PAGE_SIZE"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			return v
		}
	}
	return 10
}

// GET /task?page&limit&search&status
func (c *Controller) ListHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultPageSize()
	}
	search := strings.TrimSpace(q.Get("search"))
	status := q.Get("status")
	if status == "" {
		status = "all"
	}

	items, pagination, err := c.Tasks.ListPage(uid, page, limit, search, status)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Database error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Successfully",
		Data: map[string]interface{}{
			"tasks":      items,
			"pagination": pagination,
		},
	})
}
