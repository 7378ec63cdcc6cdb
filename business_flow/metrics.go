package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Notes created partitioned by entry point (api, add_note_query, add_note_body)
	notesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notes_created_total",
			Help: "Total number of notes created",
		},
		[]string{"source"},
	)

	notesUpdatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_updated_total",
			Help: "Total number of note updates",
		},
	)

	notesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notes_soft_deleted_total",
			Help: "Total number of soft-deleted notes",
		},
	)

	noteTagLinksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "note_tag_links_total",
			Help: "Total number of note-tag links written",
		},
	)
)
