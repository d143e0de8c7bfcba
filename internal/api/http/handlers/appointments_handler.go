package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xyzesther/CommunityAssist/internal/api/dto"
	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/service"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// AppointmentsHandler manages appointment endpoints.
type AppointmentsHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentsHandler constructs handler.
func NewAppointmentsHandler(appointmentService *service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{appointments: appointmentService}
}

// Create POST /appointments.
func (h *AppointmentsHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	var at time.Time
	if req.AppointmentTime != nil {
		at = *req.AppointmentTime
	}
	appointment, err := h.appointments.Schedule(c.Context(), caller, req.RequestID, at)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAppointmentResponse(appointment)})
}

// List GET /appointments. Public; optional requestId filter.
func (h *AppointmentsHandler) List(c *fiber.Ctx) error {
	var requestID *string
	if id := c.Query("requestId"); id != "" {
		requestID = &id
	}
	appointments, err := h.appointments.List(c.Context(), requestID)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, dto.NewAppointmentResponse(&appointments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMine GET /appointments/user.
func (h *AppointmentsHandler) ListMine(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	appointments, err := h.appointments.ListByVolunteer(c.Context(), caller.Subject)
	if err != nil {
		return err
	}
	items := make([]dto.AppointmentResponse, 0, len(appointments))
	for i := range appointments {
		items = append(items, dto.NewAppointmentResponse(&appointments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /appointments/:id. Public.
func (h *AppointmentsHandler) Get(c *fiber.Ctx) error {
	appointment, err := h.appointments.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponse(appointment)})
}

// Update PUT /appointments/:id.
func (h *AppointmentsHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	appointment, err := h.appointments.UpdateStatus(c.Context(), caller, c.Params("id"),
		domain.AppointmentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAppointmentResponse(appointment)})
}

// Delete DELETE /appointments/:id.
func (h *AppointmentsHandler) Delete(c *fiber.Ctx) error {
	if _, err := callerFromContext(c); err != nil {
		return err
	}
	if err := h.appointments.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
