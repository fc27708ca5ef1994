package routes

import (
	"net/http"
	"time"

	"github.com/Diome1804/projet-todo/controllers/auth"
	"github.com/Diome1804/projet-todo/middleware"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// AuthRoutes registers account and session endpoints on the API subrouter.
func AuthRoutes(api *mux.Router, db *gorm.DB) {
	ctrl := auth.NewController(db)

	// Rate limiter for credential endpoints: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// Session endpoints: 120 reads / 60 writes per user per minute
	userLimiter := middleware.NewUserRateLimiter(120, 60, 60)

	api.Handle("/auth/register", loginLimiter.Middleware(http.HandlerFunc(ctrl.RegisterHandler))).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(ctrl.LoginHandler))).Methods(http.MethodPost)
	api.Handle("/auth/refresh", loginLimiter.Middleware(http.HandlerFunc(ctrl.RefreshHandler))).Methods(http.MethodPost)
	api.Handle("/auth/forgot-password", loginLimiter.Middleware(http.HandlerFunc(ctrl.ForgotPasswordHandler))).Methods(http.MethodPost)

	// the user limiter keys on the authenticated id, so auth runs first
	api.Handle("/auth/logout", middleware.AuthMiddleware(userLimiter.Middleware(http.HandlerFunc(ctrl.LogoutHandler)))).Methods(http.MethodPost)
	api.Handle("/auth/users", middleware.AuthMiddleware(userLimiter.Middleware(http.HandlerFunc(ctrl.UsersHandler)))).Methods(http.MethodGet)
}
