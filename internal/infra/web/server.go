package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"buildbid/internal/infra/metrics"
	"buildbid/internal/usecase"
)

type Server struct {
	jobUC       usecase.JobUseCase
	bidUC       usecase.BidUseCase
	userUC      usecase.UserUseCase
	reviewUC    usecase.ReviewUseCase
	notifUC     usecase.NotificationUseCase
	assistantUC usecase.AssistantUseCase
	taskUC      usecase.TaskUseCase
	materialUC  usecase.MaterialUseCase
	auth        *AuthManager
	log         *zerolog.Logger
}

func NewServer(
	jobUC usecase.JobUseCase,
	bidUC usecase.BidUseCase,
	userUC usecase.UserUseCase,
	reviewUC usecase.ReviewUseCase,
	notifUC usecase.NotificationUseCase,
	assistantUC usecase.AssistantUseCase,
	taskUC usecase.TaskUseCase,
	materialUC usecase.MaterialUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "Web").Logger()
	return &Server{
		jobUC:       jobUC,
		bidUC:       bidUC,
		userUC:      userUC,
		reviewUC:    reviewUC,
		notifUC:     notifUC,
		assistantUC: assistantUC,
		taskUC:      taskUC,
		materialUC:  materialUC,
		auth:        auth,
		log:         &compLog,
	}
}

// Routes builds the full router: health and metrics are public, the mobile
// API sits behind bearer-token auth.
func (s *Server) Routes() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(s.observeRequests)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", s.handleListJobs)
				r.Post("/", s.handlePostJob)
				r.Route("/{jobID}", func(r chi.Router) {
					r.Get("/", s.handleGetJob)
					r.Post("/complete", s.handleCompleteJob)
					r.Post("/cancel", s.handleCancelJob)
					r.Get("/bids", s.handleListBids)
					r.Post("/bids", s.handleSubmitBid)
					r.Post("/bids/{bidID}/accept", s.handleAcceptBid)
					r.Post("/reviews", s.handleSubmitReview)
					r.Get("/tasks", s.handleListTasks)
					r.Post("/tasks", s.handleAddTask)
					r.Get("/materials", s.handleListMaterials)
					r.Post("/materials", s.handleAddMaterial)
					r.Get("/materials/value", s.handleInventoryValue)
				})
			})

			r.Post("/bids/{bidID}/reject", s.handleRejectBid)
			r.Get("/bids/mine", s.handleMyBids)

			r.Post("/tasks/{taskID}/status", s.handleUpdateTaskStatus)
			r.Post("/tasks/{taskID}/progress", s.handleUpdateTaskProgress)
			r.Delete("/tasks/{taskID}", s.handleDeleteTask)

			r.Post("/materials/{materialID}/quantity", s.handleAdjustMaterialQuantity)
			r.Delete("/materials/{materialID}", s.handleDeleteMaterial)

			r.Get("/contractors", s.handleListContractors)
			r.Get("/contractors/{id}/reviews", s.handleContractorReviews)

			r.Get("/users/{id}", s.handleGetUser)
			r.Put("/users/{id}", s.handleUpdateUser)

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Get("/unread-count", s.handleUnreadCount)
				r.Post("/read-all", s.handleMarkAllRead)
				r.Post("/{id}/read", s.handleMarkRead)
				r.Delete("/{id}", s.handleDeleteNotification)
			})

			r.Post("/assistant/chat", s.handleAssistantChat)
		})
	})

	return r
}

// requireAuth rejects requests without a valid bearer token and stores the
// parsed claims on the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (s *Server) observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		metrics.ObserveHTTPRequest(r.Method, ww.Status(), float64(time.Since(start).Milliseconds()))
	})
}
