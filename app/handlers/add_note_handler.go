package handlers

import (
	"log"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// noteExtractor reads the remote ingestion fields from one part of the request
type noteExtractor func(c fiber.Ctx) (*dto.AddNoteRequest, error)

// noteFromQuery reads note and author from the query string
func noteFromQuery(c fiber.Ctx) (*dto.AddNoteRequest, error) {
	var req dto.AddNoteRequest
	if err := c.Bind().Query(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// noteFromBody reads note and author from a JSON or form encoded body
func noteFromBody(c fiber.Ctx) (*dto.AddNoteRequest, error) {
	var req dto.AddNoteRequest
	if len(c.Body()) == 0 {
		return &req, nil
	}
	if err := c.Bind().Body(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

type AddNoteHandlerInterface interface {
	AddFromQuery(c fiber.Ctx) error
	AddFromBody(c fiber.Ctx) error
}

// AddNoteHandler serves the token-protected remote ingestion endpoint
type AddNoteHandler struct {
	flow      businessflow.NoteFlow
	validator *validator.Validate
}

func NewAddNoteHandler(flow businessflow.NoteFlow) *AddNoteHandler {
	return &AddNoteHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// AddFromQuery creates a note from query parameters
// @Summary Add note (query)
// @Tags Ingestion
// @Produce json
// @Param note query string true "Note content"
// @Param author query string false "Author"
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.AddNoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {string} string "Unauthorised"
// @Failure 500 {object} dto.ErrorResponse
// @Router /addNote [get]
func (h *AddNoteHandler) AddFromQuery(c fiber.Ctx) error {
	return h.add(c, noteFromQuery, businessflow.NoteSourceAddNoteQuery)
}

// AddFromBody creates a note from a JSON or form body
// @Summary Add note (body)
// @Tags Ingestion
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body dto.AddNoteRequest true "Note content and author"
// @Param Authorization header string true "Bearer token"
// @Success 200 {object} dto.AddNoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {string} string "Unauthorised"
// @Failure 500 {object} dto.ErrorResponse
// @Router /addNote [post]
func (h *AddNoteHandler) AddFromBody(c fiber.Ctx) error {
	return h.add(c, noteFromBody, businessflow.NoteSourceAddNoteBody)
}

func (h *AddNoteHandler) add(c fiber.Ctx, extract noteExtractor, source string) error {
	in, err := extract(c)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := h.validator.Struct(in); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := requestContext(c, "/addNote")
	defer cancel()

	result, err := h.flow.CreateNote(ctx, &dto.CreateNoteRequest{
		Content: in.Note,
		Author:  in.Author,
		Source:  source,
	}, clientMetadata(c))
	if err != nil {
		if businessflow.IsNoteContentRequired(err) {
			return errorJSON(c, fiber.StatusBadRequest, "Content is required")
		}
		log.Println("Error creating note:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create note")
	}

	return c.JSON(dto.AddNoteResponse{
		ID:    result.ID,
		Title: result.Title,
		Note:  result.Content,
		Tags:  result.Tags,
	})
}
