package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/pixelforge-digital/team-portal/backend/internal/access"
	"github.com/pixelforge-digital/team-portal/backend/internal/config"
	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/notifier"
	"github.com/pixelforge-digital/team-portal/backend/internal/performance"
	"github.com/pixelforge-digital/team-portal/backend/internal/presence"
	"github.com/pixelforge-digital/team-portal/backend/internal/repository"
	"github.com/pixelforge-digital/team-portal/backend/internal/storage"
)

type Handler struct {
	validate      *validator.Validate
	config        *config.Config
	repository    *repository.Repository
	translator    ut.Translator
	mailChannel   *amqp.Channel
	redisClient   *redis.Client
	presenceStore *presence.Store
	aggregator    *performance.Aggregator
	screenshots   *storage.DiskStore
	notifier      *notifier.Notifier

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, screenshots *storage.DiskStore, notif *notifier.Notifier) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:      validate,
		config:        cfg,
		repository:    repo,
		translator:    trans,
		mailChannel:   mailCh,
		redisClient:   rdb,
		presenceStore: presence.NewStore(rdb),
		aggregator:    performance.NewAggregator(repo, repo, repo),
		screenshots:   screenshots,
		notifier:      notif,

		Mux: chi.NewRouter(),
	}, nil
}

// descriptorFor resolves a worker's stored access level into the per-request
// scope descriptor. Full access expands to every existing team regardless of
// the stored team set.
func (h *Handler) descriptorFor(worker *domain.Worker) (access.Descriptor, error) {
	if worker.AccessLevel == domain.AccessFull {
		teamIDs, err := h.repository.GetAllTeamIDs()
		if err != nil {
			return access.Descriptor{}, err
		}
		return access.NewDescriptor(worker, teamIDs), nil
	}
	return access.NewDescriptor(worker, nil), nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// authentication
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// everything below requires a logged-in worker
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/workers", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.requireFullAccess).Post("/", h.CreateWorker)
			r.Get("/", h.GetAllWorkerInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.workerInfo)
				r.Get("/", h.GetWorkerInfo)
				r.With(h.preventOperateInitialAdmin).With(h.requireFullAccess).Patch("/", h.UpdateWorker)
				r.With(h.preventOperateInitialAdmin).With(h.requireFullAccess).Delete("/", h.DeactivateWorker)
				r.With(h.requireFullAccess).Patch("/password", h.UpdateWorkerPassword)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetAllTeams)
			r.With(h.requireFullAccess).Post("/", h.CreateTeam)
			r.Get("/{teamID}/tasks", h.GetTeamTasks)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(h.myInfo)
			r.With(h.requireFullAccess).Post("/", h.CreateTask)
			r.With(h.taskInfo).Patch("/{id}/status", h.UpdateTaskStatus)
		})

		r.Route("/clock", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Use(h.preventDeactivatedWorker)
			r.Post("/in", h.ClockIn)
			r.Post("/out", h.ClockOut)
			r.Get("/active", h.GetActiveClockEntry)
			r.Get("/entries", h.GetClockEntries)
			r.With(h.requireFullAccess).Get("/entries/all", h.GetAllClockEntries)
		})

		r.Route("/heartbeats", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.UpsertHeartbeat)
			r.With(h.requireFullAccess).Get("/", h.ListHeartbeats)
		})

		r.Route("/screenshots", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateScreenshot)
			r.With(h.requireFullAccess).Get("/", h.ListScreenshots)
			r.With(h.requireFullAccess).Delete("/purge", h.PurgeScreenshots)
		})

		r.Route("/performance", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/weekly", h.GetWeeklyPerformance)
			r.With(h.requireFullAccess).Get("/admin", h.GetAdminPerformance)
		})

		r.Route("/leave-requests", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateLeaveRequest)
			r.Get("/", h.GetLeaveRequests)
			r.With(h.requireFullAccess).With(h.leaveRequestInfo).Patch("/{id}/status", h.UpdateLeaveRequestStatus)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Post("/", h.CreateNote)
			r.Get("/", h.GetMyNotes)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.noteInfo)
				r.Get("/", h.GetNote)
				r.Patch("/", h.UpdateNote)
				r.Delete("/", h.DeleteNote)
			})
		})
	})
}
