package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/bkm-notes/app/dto"
	"github.com/amirphl/bkm-notes/models"
	"github.com/amirphl/bkm-notes/repository"
	"github.com/xuri/excelize/v2"
)

const (
	exportSheetName   = "Notes"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var exportHeader = []string{"ID", "Title", "Content", "Tags", "Favorite", "Archived", "Created At", "Updated At"}

// NoteExportFlow renders an author's notes as a spreadsheet
type NoteExportFlow interface {
	ExportNotes(ctx context.Context, req *dto.ExportNotesRequest, metadata *ClientMetadata) (*dto.NotesExport, error)
}

type NoteExportFlowImpl struct {
	noteRepo    repository.NoteRepository
	noteTagRepo repository.NoteTagRepository
}

func NewNoteExportFlow(noteRepo repository.NoteRepository, noteTagRepo repository.NoteTagRepository) NoteExportFlow {
	return &NoteExportFlowImpl{noteRepo: noteRepo, noteTagRepo: noteTagRepo}
}

// ExportNotes builds an XLSX workbook with one row per visible note, in listing order
func (f *NoteExportFlowImpl) ExportNotes(ctx context.Context, req *dto.ExportNotesRequest, metadata *ClientMetadata) (*dto.NotesExport, error) {
	notes, err := listNotes(ctx, f.noteRepo, f.noteTagRepo, models.NoteListQuery{Author: req.Author})
	if err != nil {
		return nil, NewBusinessError("FETCH_NOTES_FAILED", "Failed to fetch notes", err)
	}
	if len(notes) >= excelize.TotalRows {
		return nil, NewBusinessError("EXPORT_TOO_LARGE", "Too many notes to export", ErrExportTooLarge)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheetName); err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to prepare workbook", err)
	}
	if err := xl.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write header", err)
	}

	for i, n := range notes {
		record := []string{
			strconv.FormatUint(uint64(n.ID), 10),
			n.Title,
			truncateCell(n.Content),
			strings.Join(n.Tags, ", "),
			strconv.FormatBool(n.IsFavorite),
			strconv.FormatBool(n.IsArchived),
			n.CreatedAt.UTC().Format(time.RFC3339),
			n.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to address row", err)
		}
		if err := xl.SetSheetRow(exportSheetName, cellRef, &record); err != nil {
			return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write row", err)
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	return &dto.NotesExport{
		FileName:    exportFileName(req.Author),
		ContentType: exportContentType,
		Content:     buf.Bytes(),
		Rows:        len(notes),
	}, nil
}

// truncateCell keeps a value within the character limit of a spreadsheet cell
func truncateCell(value string) string {
	runes := []rune(value)
	if len(runes) <= excelize.TotalCellChars {
		return value
	}
	return string(runes[:excelize.TotalCellChars])
}

func exportFileName(author string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "\"", "_", " ", "_", ":", "_")
	safe := replacer.Replace(strings.TrimSpace(author))
	if safe == "" {
		return "notes.xlsx"
	}
	return fmt.Sprintf("notes_%s.xlsx", safe)
}
