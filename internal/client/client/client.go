package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
)

// Client is the transport-agnostic contract for the PDF backend. Each method
// issues exactly one request.
type Client interface {
	List(ctx context.Context, filter models.Filter) ([]models.Document, error)
	Update(ctx context.Context, doc models.Document) error
	Delete(ctx context.Context, id string) error
	Upload(ctx context.Context, filename string, content io.Reader) (models.Document, error)
	Summarize(ctx context.Context, id string) (string, error)
	Ask(ctx context.Context, id string, question string) (string, error)
}
