package handlers

import (
	"log"

	"github.com/amirphl/bkm-notes/app/dto"
	businessflow "github.com/amirphl/bkm-notes/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// NoteHandlerInterface defines the contract for note handlers
type NoteHandlerInterface interface {
	List(c fiber.Ctx) error
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Delete(c fiber.Ctx) error
	Export(c fiber.Ctx) error
}

// NoteHandler handles the note endpoints under /api
type NoteHandler struct {
	flow       businessflow.NoteFlow
	exportFlow businessflow.NoteExportFlow
	validator  *validator.Validate
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(flow businessflow.NoteFlow, exportFlow businessflow.NoteExportFlow) *NoteHandler {
	return &NoteHandler{
		flow:       flow,
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

// List returns the notes of an author
// @Summary List notes
// @Description Visible notes of the author, most recently updated first, optionally filtered by tag and search text
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body dto.ListNotesRequest true "Author and optional filters"
// @Success 200 {array} dto.NoteDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes [post]
func (h *NoteHandler) List(c fiber.Ctx) error {
	var req dto.ListNotesRequest
	if err := bindJSON(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := requestContext(c, "/api/notes")
	defer cancel()

	notes, err := h.flow.ListNotes(ctx, &req, clientMetadata(c))
	if err != nil {
		log.Println("Error fetching notes:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch notes")
	}
	return c.JSON(notes)
}

// Create stores a new note
// @Summary Create note
// @Description Title and tags are derived from the content
// @Tags Notes
// @Accept json
// @Produce json
// @Param request body dto.CreateNoteRequest true "Note content and author"
// @Success 201 {object} dto.NoteSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/create [post]
func (h *NoteHandler) Create(c fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}
	req.Source = businessflow.NoteSourceAPI

	ctx, cancel := requestContext(c, "/api/notes/create")
	defer cancel()

	result, err := h.flow.CreateNote(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNoteContentRequired(err) {
			return errorJSON(c, fiber.StatusBadRequest, "Content is required")
		}
		log.Println("Error creating note:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create note")
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// Update replaces the content of a note
// @Summary Update note
// @Description Replaces title, content and tags. Unknown ids are accepted and change nothing.
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "Note ID"
// @Param request body dto.UpdateNoteRequest true "New content and author"
// @Success 200 {object} dto.NoteSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/{id} [put]
func (h *NoteHandler) Update(c fiber.Ctx) error {
	id, err := businessflow.ParseNoteID(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid note id")
	}

	var req dto.UpdateNoteRequest
	if err := bindJSON(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}
	req.ID = id

	ctx, cancel := requestContext(c, "/api/notes/:id")
	defer cancel()

	result, err := h.flow.UpdateNote(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsNoteContentRequired(err) {
			return errorJSON(c, fiber.StatusBadRequest, "Content is required")
		}
		log.Println("Error updating note:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update note")
	}
	return c.JSON(result)
}

// Delete soft-deletes a note
// @Summary Delete note
// @Tags Notes
// @Produce json
// @Param id path int true "Note ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/{id} [delete]
func (h *NoteHandler) Delete(c fiber.Ctx) error {
	id, err := businessflow.ParseNoteID(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid note id")
	}

	ctx, cancel := requestContext(c, "/api/notes/:id")
	defer cancel()

	result, err := h.flow.DeleteNote(ctx, id, clientMetadata(c))
	if err != nil {
		log.Println("Error deleting note:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to delete note")
	}
	return c.JSON(result)
}

// Export downloads the notes of an author as an Excel workbook
// @Summary Export notes
// @Tags Notes
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.ExportNotesRequest true "Author"
// @Success 200 {string} string "Excel file"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/notes/export [post]
func (h *NoteHandler) Export(c fiber.Ctx) error {
	var req dto.ExportNotesRequest
	if err := bindJSON(c, &req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := h.validator.Struct(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, validationMessage(err))
	}

	ctx, cancel := requestContext(c, "/api/notes/export")
	defer cancel()

	export, err := h.exportFlow.ExportNotes(ctx, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsExportTooLarge(err) {
			return errorJSON(c, fiber.StatusUnprocessableEntity, "Too many notes to export")
		}
		log.Println("Error exporting notes:", err)
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to export notes")
	}

	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+export.FileName)
	return c.Send(export.Content)
}
