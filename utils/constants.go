package utils

import (
	"time"
)

// Note derivation constants
const (
	// UntitledNote is the title given to notes whose content has no text besides hashtags
	UntitledNote = "Untitled Note"

	// TitleMaxLength is the maximum number of characters taken from the first line
	TitleMaxLength = 50

	// TitleMinWordBreak is the smallest position at which a title may be cut on a space
	TitleMinWordBreak = 20

	// TitleEllipsis is appended when a title is cut on a word boundary
	TitleEllipsis = "..."
)

// Tag constants
const (
	// DefaultTagColor is the column default for tags created outside the note flow
	DefaultTagColor = "#007bff"
)

// HTTP constants
const (
	// RequestTimeout bounds every handler-to-flow call
	RequestTimeout = 30 * time.Second

	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400

	// UnauthorisedMessage is the plain-text body of every access gate rejection
	UnauthorisedMessage = "Unauthorised"
)
