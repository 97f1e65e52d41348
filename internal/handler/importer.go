package handler

import (
	"context"
	"io"

	"github.com/relink-dev/relink/internal/forms"
)

// ImportEngine is the external collaborator behind the two-step import flow.
// It owns file storage, format detection, and import execution; this package
// only carries its outputs through the confirm round trip. The stashed file
// name must stay resolvable between Stash and Run — ownership transfers via
// the signed token in the confirm form, not a server-side handle.
type ImportEngine interface {
	// Stash stores the uploaded file, detects its input format, and reads its
	// column headers.
	Stash(ctx context.Context, file io.Reader, filename string) (*ImportStash, error)

	// Headers re-reads the column headers of a previously stashed file.
	Headers(ctx context.Context, fileName, format string) ([]string, error)

	// Run executes the confirmed import and discards the stashed file.
	Run(ctx context.Context, opts forms.ImportOptions) (*ImportReport, error)
}

// ImportStash identifies a stored upload between the two steps.
type ImportStash struct {
	FileName string
	Format   string
	Headers  []string
}

// ImportReport summarizes an executed import.
type ImportReport struct {
	Created int
	Skipped int
	Errors  []string
}
