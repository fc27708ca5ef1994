package routes

import (
	"net/http"

	"github.com/Diome1804/projet-todo/controllers/history"
	"github.com/Diome1804/projet-todo/controllers/tasks"
	"github.com/Diome1804/projet-todo/middleware"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// TaskRoutes registers the task CRUD, permission and history endpoints.
// Everything here requires an authenticated caller.
func TaskRoutes(api *mux.Router, db *gorm.DB) {
	taskCtrl := tasks.NewController(db)
	historyCtrl := history.NewController(db)

	// 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	protect := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(userLimiter.Middleware(h))
	}

	api.Handle("/task", protect(taskCtrl.ListHandler)).Methods(http.MethodGet)
	api.Handle("/task", protect(taskCtrl.CreateHandler)).Methods(http.MethodPost)
	api.Handle("/task/{id:[0-9]+}", protect(taskCtrl.GetHandler)).Methods(http.MethodGet)
	api.Handle("/task/{id:[0-9]+}", protect(taskCtrl.UpdateHandler)).Methods(http.MethodPut)
	api.Handle("/task/{id:[0-9]+}", protect(taskCtrl.DeleteHandler)).Methods(http.MethodDelete)
	api.Handle("/task/{id:[0-9]+}/completed", protect(taskCtrl.ToggleHandler)).Methods(http.MethodPatch)

	api.Handle("/task/{id:[0-9]+}/permissions", protect(taskCtrl.GrantHandler)).Methods(http.MethodPost)
	api.Handle("/task/{id:[0-9]+}/permissions/{userId:[0-9]+}", protect(taskCtrl.RevokeHandler)).Methods(http.MethodDelete)
	api.Handle("/task/{id:[0-9]+}/available-users", protect(taskCtrl.AvailableUsersHandler)).Methods(http.MethodGet)

	api.Handle("/history", protect(historyCtrl.ListHandler)).Methods(http.MethodGet)
}
