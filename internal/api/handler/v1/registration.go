package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftedmarket/api/internal/api/handler/v1/request"
	"github.com/craftedmarket/api/internal/api/handler/v1/response"
	"github.com/craftedmarket/api/internal/domain"
	"github.com/craftedmarket/api/internal/service"
)

type RegistrationService interface {
	Submit(ctx context.Context, eventID, userID uint) (domain.Registration, domain.Event, error)
	Approve(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error)
	Reject(ctx context.Context, registrationID uint, reason string) (domain.Registration, domain.Event, error)
	Waitlist(ctx context.Context, registrationID uint) (domain.Registration, domain.Event, error)
	Unregister(ctx context.Context, eventID, userID uint) (domain.Registration, domain.Event, *domain.Registration, error)
	SubmitFeedback(ctx context.Context, eventID, userID uint, rating int, feedback string) (domain.Registration, domain.Event, error)
	ListEventRegistrations(ctx context.Context, eventID uint) ([]domain.Registration, error)
	ListOwnRegistrations(ctx context.Context, userID uint) ([]domain.Registration, error)
}

type RegistrationHandler struct {
	svc  RegistrationService
	uSvc UserService
}

func NewRegistrationHandler(svc RegistrationService, uSvc UserService) *RegistrationHandler {
	return &RegistrationHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// renderLifecycleErr maps the registration lifecycle's expected
// failures onto structured responses. It returns false when the error
// was not one of them, so the caller can fall through to a 500.
func renderLifecycleErr(ctx *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", ctx.Param("eventID")))
	case errors.Is(err, service.ErrRegistrationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("registration", "ID", ctx.Param("registrationID")))
	case errors.Is(err, service.ErrNotAVendor):
		response.RenderErr(ctx, response.ErrPermissionDenied(service.ErrNotAVendor))
	case errors.Is(err, service.ErrDuplicateRegistration):
		response.RenderErr(ctx, response.ErrConflict(service.ErrDuplicateRegistration))
	case errors.Is(err, service.ErrInvalidStatus):
		response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidStatus))
	case errors.Is(err, service.ErrCapacityExceeded):
		response.RenderErr(ctx, response.ErrConflict(service.ErrCapacityExceeded))
	case errors.Is(err, service.ErrEventNotPublished):
		response.RenderErr(ctx, response.ErrConflict(service.ErrEventNotPublished))
	case errors.Is(err, service.ErrDeadlinePassed):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrDeadlinePassed))
	case errors.Is(err, service.ErrEventAlreadyStarted):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrEventAlreadyStarted))
	case errors.Is(err, service.ErrEventNotEnded):
		response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrEventNotEnded))
	case errors.Is(err, service.ErrInvalidRating):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidRating))
	default:
		return false
	}

	return true
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid %v: %w", name, err)))
		return 0, false
	}

	return uint(id), true
}

// HandleSubmitRegistration godoc
// @Summary      Apply to participate in an event
// @Description  Creates a pending registration for the calling vendor. Pending applicants do not occupy a capacity slot.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      201  {object}  response.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleSubmitRegistration(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	registration, event, err := h.svc.Submit(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleSubmitRegistration -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewRegistration(registration, event))
}

// HandleApproveRegistration godoc
// @Summary      Approve a pending registration
// @Description  Confirms the registration and increments the event's participant counter, unless capacity is exhausted. Admin only.
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200  {object}  response.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID}/approve [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleApproveRegistration(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	registrationID, ok := parseID(ctx, "registrationID")
	if !ok {
		return
	}

	registration, event, err := h.svc.Approve(ctx.Request.Context(), registrationID)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleApproveRegistration -> h.svc.Approve -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRegistration(registration, event))
}

// HandleRejectRegistration godoc
// @Summary      Reject a pending registration
// @Description  Cancels the registration, optionally recording a reason. Admin only.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Param        input  body      request.RejectRegistrationRequest  false  "Rejection reason"
// @Success      200  {object}  response.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID}/reject [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleRejectRegistration(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	registrationID, ok := parseID(ctx, "registrationID")
	if !ok {
		return
	}

	var input request.RejectRegistrationRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}

		if err := input.Validate(); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	registration, event, err := h.svc.Reject(ctx.Request.Context(), registrationID, input.Reason)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleRejectRegistration -> h.svc.Reject -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRegistration(registration, event))
}

// HandleWaitlistRegistration godoc
// @Summary      Move a pending registration onto the waitlist
// @Description  The admin's alternative to rejecting when the event is full. Waitlisted vendors are promoted FIFO as seats free up.
// @Tags         registrations
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200  {object}  response.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations/{registrationID}/waitlist [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleWaitlistRegistration(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	registrationID, ok := parseID(ctx, "registrationID")
	if !ok {
		return
	}

	registration, event, err := h.svc.Waitlist(ctx.Request.Context(), registrationID)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleWaitlistRegistration -> h.svc.Waitlist -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRegistration(registration, event))
}

// HandleUnregister godoc
// @Summary      Withdraw from an event
// @Description  Cancels the calling vendor's registration before the event starts. Vacating a confirmed seat promotes the earliest waitlisted vendor.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {object}  response.Unregistration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [delete]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleUnregister(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	registration, event, promoted, err := h.svc.Unregister(ctx.Request.Context(), eventID, user.ID)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleUnregister -> h.svc.Unregister -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewUnregistration(registration, event, promoted))
}

// HandleSubmitFeedback godoc
// @Summary      Submit post-event feedback
// @Description  Records the calling vendor's rating and feedback once the event has ended and marks the registration attended. Resubmission overwrites.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Param        input  body      request.SubmitFeedbackRequest  true  "Rating and feedback"
// @Success      200  {object}  response.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/feedback [post]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleSubmitFeedback(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	var input request.SubmitFeedbackRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	registration, event, err := h.svc.SubmitFeedback(ctx.Request.Context(), eventID, user.ID, input.Rating, input.Feedback)
	if err != nil {
		if renderLifecycleErr(ctx, err) {
			return
		}

		err = fmt.Errorf("v1.HandleSubmitFeedback -> h.svc.SubmitFeedback -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewRegistration(registration, event))
}

// HandleListEventRegistrations godoc
// @Summary      List an event's registrations
// @Description  Returns the full roster, waitlist included, ordered by registration date. Admin only.
// @Tags         registrations
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200  {array}   domain.Registration
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListEventRegistrations(ctx *gin.Context) {
	if !h.requireAdmin(ctx) {
		return
	}

	eventID, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	registrations, err := h.svc.ListEventRegistrations(ctx.Request.Context(), eventID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListEventRegistrations -> h.svc.ListEventRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

// HandleListOwnRegistrations godoc
// @Summary      List the calling vendor's registrations
// @Tags         registrations
// @Produce      json
// @Success      200  {array}   domain.Registration
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /registrations [get]
// @Security     BearerAuth
func (h *RegistrationHandler) HandleListOwnRegistrations(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	registrations, err := h.svc.ListOwnRegistrations(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOwnRegistrations -> h.svc.ListOwnRegistrations -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, registrations)
}

func (h *RegistrationHandler) requireAdmin(ctx *gin.Context) bool {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return false
	}

	if !user.IsAdmin() {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an admin", user.ID)))
		return false
	}

	return true
}
