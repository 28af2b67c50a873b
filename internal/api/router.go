package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskflow/internal/api/handlers"
	"github.com/TWRT/taskflow/internal/api/middleware"
	"github.com/TWRT/taskflow/internal/repository"
	"github.com/TWRT/taskflow/internal/service"
)

type RouterOptions struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRouter(db *sql.DB, dialect repository.Dialect, opts RouterOptions, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()

	taskRepo := repository.NewTaskRepository(db, dialect)
	taskService := service.NewTaskService(taskRepo, service.NewValidator(), logger)
	taskHandler := handlers.NewTaskHandler(taskService, logger)

	router.HandleFunc("/health", taskHandler.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/createtasks", taskHandler.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/api/fetchdata", taskHandler.ListTasks).Methods(http.MethodGet)
	router.HandleFunc("/api/task", taskHandler.GetTask).Methods(http.MethodGet)
	router.HandleFunc("/api/update", taskHandler.UpdateTask).Methods(http.MethodPatch)
	router.HandleFunc("/api/delete", taskHandler.DeleteTask).Methods(http.MethodDelete)

	router.NotFoundHandler = http.HandlerFunc(handlers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(handlers.MethodNotAllowed)

	return withMiddleware(router, opts, logger)
}

// withMiddleware wraps h, outermost first: request id, recovery, access log,
// CORS, timeout.
func withMiddleware(h http.Handler, opts RouterOptions, logger *logrus.Logger) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := middleware.Timeout(opts.RequestTimeout)(h)
	handler = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}).Handler(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)
	handler = middleware.RequestID(handler)

	return handler
}
