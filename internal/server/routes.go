package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"srms_backend/internal/assignment"
	"srms_backend/internal/auth"
	"srms_backend/internal/marks"
	"srms_backend/internal/server/handlers"
	"srms_backend/internal/server/util"
	"srms_backend/internal/shared"
	"srms_backend/internal/users"
)

// SetupRoutes configures the chi router, middleware, and route handlers.
func SetupRoutes(db *mongo.Database, config *shared.Config) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	if !config.IsProduction() {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.CORS.AllowedOrigins,
		AllowedMethods:   config.CORS.AllowedMethods,
		AllowedHeaders:   config.CORS.AllowedHeaders,
		AllowCredentials: config.CORS.AllowCredentials,
		MaxAge:           config.CORS.MaxAge,
	}))

	// 2. Initialize Services and Handlers
	authService := auth.NewService(db, config)
	authHandler := &handlers.AuthHandler{Auth: authService}
	userHandler := &handlers.UserHandler{Users: users.NewService(db, config)}
	roleHandler := &handlers.RoleHandler{}
	studentHandler := &handlers.StudentHandler{}
	marksHandler := &handlers.MarksHandler{Marks: marks.NewService(db, config)}
	assignmentHandler := &handlers.AssignmentHandler{Assignments: assignment.NewService(db)}

	// 3. Define Routes
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		util.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"message": "Welcome to SRMS API",
		})
	})

	r.Post("/auth/login", authHandler.Login)

	// Token-checked routes
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(authService))
		r.Get("/auth/profile", authHandler.Profile)
		r.Post("/auth/logout", authHandler.Logout)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/signup", userHandler.Signup)
		r.Get("/students", userHandler.ListStudents)
		r.Get("/teachers", userHandler.ListTeachers)
		r.Get("/admins", userHandler.ListAdmins)
	})

	r.Get("/roles", roleHandler.List)

	r.Route("/students", func(r chi.Router) {
		r.Get("/", studentHandler.List)
		r.Post("/", studentHandler.Create)
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Post("/create", assignmentHandler.Create)
		r.Get("/student/{studentId}", assignmentHandler.ListForStudent)
		r.Post("/submit", assignmentHandler.Submit)
		r.Post("/verify", assignmentHandler.Verify)
		r.Get("/status/{assignmentId}", assignmentHandler.Status)
		r.Get("/analytics", assignmentHandler.Analytics)
	})

	r.Route("/marks", func(r chi.Router) {
		r.Post("/upload", marksHandler.Upload)
		r.Get("/download/{studentId}", marksHandler.Download)
		r.Get("/analytics", marksHandler.Analytics)
	})

	return r
}

// AuthMiddleware validates the bearer token and injects the claims into the
// request context.
func AuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization header missing")
				return
			}

			claims, err := authService.ParseToken(tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), claims)))
		})
	}
}
