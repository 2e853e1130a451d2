package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/pixelforge-digital/team-portal/backend/internal/domain"
)

func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var req struct {
		StartDate string `json:"startDate" validate:"required"`
		EndDate   string `json:"endDate" validate:"required"`
		Reason    string `json:"reason" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.errorResponse(w, r, "invalid start date, expected YYYY-MM-DD")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.errorResponse(w, r, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if endDate.Before(startDate) {
		h.errorResponse(w, r, "end date is before start date")
		return
	}

	request := &domain.LeaveRequest{
		WorkerID:  myInfo.ID,
		StartDate: startDate,
		EndDate:   endDate,
		Reason:    req.Reason,
	}

	if err := h.repository.CreateLeaveRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifier.Notify(domain.Notification{
		Type:       domain.NotificationLeaveRequest,
		WorkerID:   myInfo.ID,
		Message:    fmt.Sprintf("%s requested leave from %s to %s", myInfo.FullName, req.StartDate, req.EndDate),
		OccurredAt: time.Now(),
	})

	h.successResponse(w, r, "leave request submitted", request)
}

// GetLeaveRequests lists the caller's own requests; full-access callers see
// everyone's.
func (h *Handler) GetLeaveRequests(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Worker)

	var requests []*domain.LeaveRequest
	var err error
	if myInfo.AccessLevel == domain.AccessFull {
		requests, err = h.repository.GetAllLeaveRequests()
	} else {
		requests, err = h.repository.GetLeaveRequestsByWorker(myInfo.ID)
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "fetched leave requests", requests)
}

func (h *Handler) UpdateLeaveRequestStatus(w http.ResponseWriter, r *http.Request) {
	request := r.Context().Value(LeaveRequestCtx).(*domain.LeaveRequest)

	var req struct {
		Status string `json:"status" validate:"required,oneof=approved rejected"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if request.Status != domain.LeaveStatusPending {
		h.errorResponse(w, r, "leave request has already been decided")
		return
	}

	if err := h.repository.UpdateLeaveRequestStatus(request, domain.LeaveStatus(req.Status)); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "leave request was modified concurrently, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	requester, err := h.repository.GetWorkerByID(request.WorkerID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: "leave_decision",
		To:   requester.Email,
		Data: domain.LeaveDecisionMailData{
			FullName:  requester.FullName,
			StartDate: request.StartDate.Format("2006-01-02"),
			EndDate:   request.EndDate.Format("2006-01-02"),
			Status:    string(request.Status),
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

	h.notifier.Notify(domain.Notification{
		Type:       domain.NotificationLeaveDecision,
		WorkerID:   request.WorkerID,
		Message:    fmt.Sprintf("leave request %d was %s", request.ID, request.Status),
		OccurredAt: time.Now(),
	})

	h.successResponse(w, r, "leave request decided", request)
}
