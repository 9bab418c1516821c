package controller

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
	"github.com/dmitrijs2005/pdfdesk/internal/logging"
)

// Summarizer generates a summary for one document.
type Summarizer interface {
	Summarize(ctx context.Context, id string) (string, error)
}

// Row presents a single document. It never touches the collection directly:
// reads go through snapshot, writes through onChange and onDelete. Its own
// state is the summary panel.
type Row struct {
	id         string
	snapshot   func(id string) (models.Document, bool)
	onChange   func(ctx context.Context, field models.Field, value any) error
	onDelete   func(ctx context.Context) error
	summarizer Summarizer
	log        logging.Logger

	mu      sync.Mutex
	summary string
	visible bool
}

func (r *Row) ID() string { return r.id }

// Document returns the current value of the row's document.
func (r *Row) Document() (models.Document, bool) {
	return r.snapshot(r.id)
}

func (r *Row) SetSelected(ctx context.Context, selected bool) error {
	return r.onChange(ctx, models.FieldSelected, selected)
}

func (r *Row) Rename(ctx context.Context, name string) error {
	return r.onChange(ctx, models.FieldName, name)
}

func (r *Row) Delete(ctx context.Context) error {
	return r.onDelete(ctx)
}

// GenerateSummary asks the backend for a summary and opens the panel with
// it. A failure leaves the panel as it was and is only logged.
func (r *Row) GenerateSummary(ctx context.Context) error {
	text, err := r.summarizer.Summarize(ctx, r.id)
	if err != nil {
		r.log.Warn(ctx, "generate summary failed", "id", r.id, "error", err)
		return err
	}

	r.mu.Lock()
	r.summary = text
	r.visible = true
	r.mu.Unlock()
	return nil
}

// CloseSummary hides the panel. The text is kept until the next successful
// GenerateSummary overwrites it.
func (r *Row) CloseSummary() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = false
}

// Summary returns the last summary text and whether the panel is open.
func (r *Row) Summary() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.summary, r.visible
}
