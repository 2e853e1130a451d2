package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
	"github.com/pixelforge-digital/team-portal/backend/internal/utils"
)

// GetAllWorkerInfo lists workers visible to the caller: everyone for full
// access, otherwise only workers sharing a team within the caller's scope.
func (h *Handler) GetAllWorkerInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	descriptor, err := h.descriptorFor(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	visible := []*domain.Worker{}
	for _, worker := range workers {
		if descriptor.CanViewWorker(myInfo.ID, worker) {
			visible = append(visible, worker)
		}
	}

	h.successResponse(w, r, "fetched workers", visible)
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string  `json:"username" validate:"required"`
		FullName    string  `json:"fullName" validate:"required"`
		Email       string  `json:"email" validate:"required,email"`
		Role        string  `json:"role" validate:"required,oneof=admin member"`
		Designation string  `json:"designation" validate:"required"`
		AccessLevel string  `json:"accessLevel" validate:"required,oneof=full multi_team team_only"`
		AccessTeams []int64 `json:"accessTeams"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewWorker.PasswordLength)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	worker := &domain.Worker{
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
		Designation:  req.Designation,
		AccessLevel:  domain.AccessLevel(req.AccessLevel),
		AccessTeams:  req.AccessTeams,
	}

	if err := h.repository.CreateWorker(worker); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "workers_username_key":
				h.errorResponse(w, r, "username is already taken")
			case "workers_email_key":
				h.errorResponse(w, r, "email is already in use")
			case "worker_teams_team_id_fkey":
				h.errorResponse(w, r, "one of the teams does not exist")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	mailMessage := domain.MailMessage{
		Type: "create_worker",
		To:   worker.Email,
		Data: domain.CreateWorkerMailData{
			FullName: worker.FullName,
			Username: worker.Username,
			Password: password,
		},
	}

	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "worker created, credentials sent by email", worker)
}

func (h *Handler) GetWorkerInfo(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	descriptor, err := h.descriptorFor(myInfo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !descriptor.CanViewWorker(myInfo.ID, worker) {
		h.errorResponse(w, r, domain.ErrForbidden.Error())
		return
	}

	h.successResponse(w, r, "fetched worker", worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	var req struct {
		Email       *string  `json:"email" validate:"omitempty,email"`
		Role        *string  `json:"role" validate:"omitempty,oneof=admin member"`
		Designation *string  `json:"designation"`
		AccessLevel *string  `json:"accessLevel" validate:"omitempty,oneof=full multi_team team_only"`
		AccessTeams *[]int64 `json:"accessTeams"`
		IsActive    *bool    `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Email != nil {
		worker.Email = *req.Email
	}
	if req.Role != nil {
		worker.Role = domain.Role(*req.Role)
	}
	if req.Designation != nil {
		worker.Designation = *req.Designation
	}
	if req.AccessLevel != nil {
		worker.AccessLevel = domain.AccessLevel(*req.AccessLevel)
	}
	if req.AccessTeams != nil {
		worker.AccessTeams = *req.AccessTeams
	}
	if req.IsActive != nil {
		worker.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateWorker(worker); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "worker was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "worker updated", worker)
}

func (h *Handler) UpdateWorkerPassword(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	var req struct {
		NewPassword string `json:"newPassword" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	worker.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateWorker(worker); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "worker was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "password updated", nil)
}

// DeactivateWorker soft-disables the account. Clock entries and screenshots
// keep referencing the worker, so it is never hard-deleted.
func (h *Handler) DeactivateWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerInfoCtx).(*domain.Worker)

	if err := h.repository.DeactivateWorker(worker.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "worker deactivated", nil)
}
