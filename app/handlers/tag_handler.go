package handlers

import (
	"log"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type TagHandlerInterface interface {
	List(c fiber.Ctx) error
}

type TagHandler struct {
	flow      businessflow.TagFlow
	validator *validator.Validate
}

func NewTagHandler(flow businessflow.TagFlow) *TagHandler {
	return &TagHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// List returns the tags of an author with their note counts
// @Summary List tags
// @Tags Tags
// @Accept json
// @Produce json
// @Param request body dto.ListTagsRequest true "Author"
// @Success 200 {array} dto.TagDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/tags [post]
func (h *TagHandler) List(c fiber.Ctx) error {
	var req dto.ListTagsRequest
	if err := bindJSON(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := requestContext(c, "/api/tags")
	defer cancel()

	tags, err := h.flow.ListTags(ctx, &req, clientMetadata(c))
	if err != nil {
		log.Println("Error fetching tags:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch tags")
	}
	return c.JSON(tags)
}
