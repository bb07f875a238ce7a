package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/briareus/pkg/usecase"
	"github.com/secmon-lab/briareus/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

type Options func(*Server)

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	// Auth endpoints take no session; they issue or revoke one
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/login", authLoginHandler(uc.Auth))
		r.Post("/logout", authLogoutHandler(uc.Auth))
		r.With(authMiddleware(uc.Auth)).Get("/me", authMeHandler())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware(uc.Auth))

		r.Route("/cases", func(r chi.Router) {
			r.Post("/", createCaseHandler(uc.Case))
			r.Get("/", listCasesHandler(uc.Case))

			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", getCaseHandler(uc.Case))
				r.Patch("/", updateCaseHandler(uc.Case))
				r.Delete("/", deleteCaseHandler(uc.Case))
				r.Post("/resolve", resolveCaseHandler(uc.Case))
				r.Post("/reopen", reopenCaseHandler(uc.Case))

				r.Post("/tasks", createTaskHandler(uc.Task))
				r.Get("/tasks", listTasksHandler(uc.Task))

				r.Post("/playbooks", attachPlaybookHandler(uc.Execution))
				r.Get("/playbooks", listCasePlaybooksHandler(uc.Execution))
				r.Delete("/playbooks/{casePlaybookID}", detachPlaybookHandler(uc.Execution))

				r.Route("/executions/{executionID}", func(r chi.Router) {
					r.Get("/", getExecutionHandler(uc.Execution))
					r.Post("/advance", advanceStepHandler(uc.Execution))
					r.Post("/retreat", retreatStepHandler(uc.Execution))
					r.Post("/complete", completeExecutionHandler(uc.Execution))
					r.Put("/steps/{stepIndex}/comment", setStepCommentHandler(uc.Execution))
					r.Post("/steps/{stepIndex}/checklist/{itemIndex}", toggleChecklistItemHandler(uc.Execution))
				})
			})
		})

		r.Route("/tasks/{taskID}", func(r chi.Router) {
			r.Get("/", getTaskHandler(uc.Task))
			r.Patch("/", updateTaskHandler(uc.Task))
			r.Delete("/", deleteTaskHandler(uc.Task))
			r.Post("/close", closeTaskHandler(uc.Task))
		})

		r.Route("/playbooks", func(r chi.Router) {
			r.Post("/", createPlaybookHandler(uc.Playbook))
			r.Get("/", listPlaybooksHandler(uc.Playbook))
			r.Get("/{playbookID}", getPlaybookHandler(uc.Playbook))
			r.Put("/{playbookID}", updatePlaybookHandler(uc.Playbook))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", listNotificationsHandler(uc.Notification))
			r.Get("/unread-count", unreadCountHandler(uc.Notification))
			r.Post("/{notificationID}/read", markNotificationReadHandler(uc.Notification))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", listUsersHandler(uc.User))
			r.Get("/{userID}", getUserHandler(uc.User))
			r.Put("/{userID}", putUserHandler(uc.User))
		})
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
