package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/xyzesther/CommunityAssist/internal/api/dto"
	"github.com/xyzesther/CommunityAssist/internal/domain"
	"github.com/xyzesther/CommunityAssist/internal/service"
	"github.com/xyzesther/CommunityAssist/pkg/util"
)

// RequestsHandler manages help-request endpoints.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requestService}
}

// Create POST /requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	request, err := h.requests.Create(c.Context(), caller, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// List GET /requests. Public; owners are joined in.
func (h *RequestsHandler) List(c *fiber.Ctx) error {
	requests, err := h.requests.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListMine GET /requests/user.
func (h *RequestsHandler) ListMine(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	requests, err := h.requests.ListByOwner(c.Context(), caller.Subject)
	if err != nil {
		return err
	}
	items := make([]dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, dto.NewRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /requests/:id. Public.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	request, err := h.requests.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// Update PUT /requests/:id.
func (h *RequestsHandler) Update(c *fiber.Ctx) error {
	caller, err := callerFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	input := service.RequestUpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.RequestStatus(*req.Status)
		input.Status = &status
	}

	request, err := h.requests.Update(c.Context(), caller, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// Delete DELETE /requests/:id.
func (h *RequestsHandler) Delete(c *fiber.Ctx) error {
	if _, err := callerFromContext(c); err != nil {
		return err
	}
	if err := h.requests.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
