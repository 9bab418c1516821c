package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pdfdesk/internal/client/client"
	"github.com/dmitrijs2005/pdfdesk/internal/client/debounce"
	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
	"github.com/dmitrijs2005/pdfdesk/internal/logging"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Controller owns the ordered, in-memory list of documents.
type Controller struct {
	api     client.Client
	alerter Alerter
	log     logging.Logger
	persist *debounce.Debouncer[string]

	initOnce sync.Once
	initErr  error

	mu       sync.Mutex
	docs     []models.Document
	filter   models.Filter
	file     string
	question string
	rows     map[string]*Row
}

// New returns a Controller that pushes edits to api after debounceDelay of
// inactivity per document. A nil alerter or logger discards output.
func New(api client.Client, alerter Alerter, logger logging.Logger, debounceDelay time.Duration) *Controller {
	if alerter == nil {
		alerter = AlertFunc(func(string) {})
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Controller{
		api:     api,
		alerter: alerter,
		log:     logger,
		persist: debounce.New[string](debounceDelay),
		docs:    []models.Document{},
		rows:    make(map[string]*Row),
	}
}

// Init performs the first load with the current filter. Only the first call
// issues a request; later calls return the first call's result.
func (c *Controller) Init(ctx context.Context) error {
	c.initOnce.Do(func() {
		c.initErr = c.Load(ctx, c.Filter())
	})
	return c.initErr
}

// Load fetches the collection for filter and replaces the local list with
// the response. On failure the local list is left as is.
func (c *Controller) Load(ctx context.Context, filter models.Filter) error {
	docs, err := c.api.List(ctx, filter)
	if err != nil {
		c.log.Warn(ctx, "load documents failed", "filter", filter.String(), "error", err)
		return err
	}

	c.mu.Lock()
	c.docs = make([]models.Document, len(docs))
	present := make(map[string]struct{}, len(docs))
	for i, d := range docs {
		c.docs[i] = d.Clone()
		present[d.ID] = struct{}{}
	}
	for id := range c.rows {
		if _, ok := present[id]; !ok {
			delete(c.rows, id)
		}
	}
	c.mu.Unlock()

	c.log.Debug(ctx, "documents loaded", "filter", filter.String(), "count", len(docs))
	return nil
}

// SetFilter stores filter and reloads the collection with it.
func (c *Controller) SetFilter(ctx context.Context, filter models.Filter) error {
	c.mu.Lock()
	c.filter = filter
	c.mu.Unlock()

	return c.Load(ctx, filter)
}

// Filter returns the filter last set with SetFilter.
func (c *Controller) Filter() models.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Documents returns a copy of the local collection in display order.
func (c *Controller) Documents() []models.Document {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Document, len(c.docs))
	for i, d := range c.docs {
		out[i] = d.Clone()
	}
	return out
}

// Document returns a copy of the document with the given id.
func (c *Controller) Document(id string) (models.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return models.Document{}, false
	}
	return c.docs[i].Clone(), true
}

// indexOf must be called with c.mu held.
func (c *Controller) indexOf(id string) int {
	for i := range c.docs {
		if c.docs[i].ID == id {
			return i
		}
	}
	return -1
}

// EditField replaces one field of the document with the given id, applies it
// locally at once and schedules the write to the backend. It returns false
// without error when no such document is loaded.
func (c *Controller) EditField(ctx context.Context, id string, field models.Field, value any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		c.log.Debug(ctx, "edit of unknown document ignored", "id", id, "field", string(field))
		return false, nil
	}

	updated, err := c.docs[i].With(field, value)
	if err != nil {
		return false, err
	}
	c.docs[i] = updated

	// Scheduled under c.mu so that the last edit applied is also the last
	// write scheduled.
	snapshot := updated.Clone()
	c.persist.Trigger(id, func() { c.save(snapshot) })
	return true, nil
}

// save sends doc, the value of the last edit, to the backend. Failures are
// only logged and the local value is kept.
func (c *Controller) save(doc models.Document) {
	ctx := context.Background()
	if err := c.api.Update(ctx, doc); err != nil {
		c.log.Warn(ctx, "persist document failed", "id", doc.ID, "error", err)
		return
	}
	c.log.Debug(ctx, "document persisted", "id", doc.ID)
}

// Remove deletes the document on the backend and, once confirmed, drops it
// from the local list.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if err := c.api.Delete(ctx, id); err != nil {
		if errors.Is(err, client.ErrNotFound) {
			c.log.Debug(ctx, "document already gone on backend", "id", id)
		} else {
			c.log.Warn(ctx, "delete document failed", "id", id, "error", err)
		}
		return err
	}

	c.mu.Lock()
	if i := c.indexOf(id); i >= 0 {
		c.docs = slices.Delete(c.docs, i, i+1)
	}
	delete(c.rows, id)
	c.mu.Unlock()

	c.log.Info(ctx, "document deleted", "id", id)
	return nil
}

// SelectFile remembers the local file to send on the next Upload. An empty
// path clears the selection.
func (c *Controller) SelectFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = strings.TrimSpace(path)
}

func (c *Controller) SelectedFile() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.file
}

var pdfExtension = validation.By(func(v any) error {
	s, _ := v.(string)
	if !strings.EqualFold(filepath.Ext(s), ".pdf") {
		return errors.New("must be a .pdf file")
	}
	return nil
})

// validate runs rules against value and, on failure, alerts msg and returns
// sentinel.
func (c *Controller) validate(value any, sentinel error, msg string, rules ...validation.Rule) error {
	if err := validation.Validate(value, rules...); err != nil {
		c.alerter.Alert(msg)
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	return nil
}

// Upload sends the selected file and appends the created document to the
// local list.
func (c *Controller) Upload(ctx context.Context) (models.Document, error) {
	path := c.SelectedFile()

	if err := c.validate(path, ErrNoFileSelected, MsgNoFileSelected, validation.Required); err != nil {
		return models.Document{}, err
	}
	if err := c.validate(path, ErrNotPDF, MsgNotPDF, pdfExtension); err != nil {
		return models.Document{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		c.log.Warn(ctx, "open upload file failed", "path", path, "error", err)
		c.alerter.Alert(MsgUploadFailed)
		return models.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := c.api.Upload(ctx, filepath.Base(path), f)
	if err != nil {
		c.log.Warn(ctx, "upload failed", "path", path, "error", err)
		c.alerter.Alert(MsgUploadFailed)
		return models.Document{}, err
	}

	c.mu.Lock()
	if i := c.indexOf(doc.ID); i >= 0 {
		c.log.Warn(ctx, "uploaded document id already listed, replacing", "id", doc.ID)
		c.docs[i] = doc.Clone()
	} else {
		c.docs = append(c.docs, doc.Clone())
	}
	c.mu.Unlock()

	c.log.Info(ctx, "document uploaded", "id", doc.ID, "name", doc.Name)
	return doc, nil
}

// SetQuestion replaces the question buffer.
func (c *Controller) SetQuestion(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.question = text
}

// Question returns the question buffer, which holds the last answer after a
// successful AskQuestion.
func (c *Controller) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.question
}

// AskQuestion sends the question buffer about the selected document and
// replaces the buffer with the answer. With several documents selected the
// first one in list order is used.
func (c *Controller) AskQuestion(ctx context.Context) (string, error) {
	c.mu.Lock()
	var (
		target   string
		selected int
	)
	for _, d := range c.docs {
		if d.Selected {
			if selected == 0 {
				target = d.ID
			}
			selected++
		}
	}
	question := c.question
	c.mu.Unlock()

	if err := c.validate(target, ErrNoDocumentSelected, MsgNoDocumentSelected, validation.Required); err != nil {
		return "", err
	}
	if selected > 1 {
		c.log.Warn(ctx, "several documents selected, asking the first", "id", target, "selected", selected)
	}
	if err := c.validate(strings.TrimSpace(question), ErrEmptyQuestion, MsgEmptyQuestion, validation.Required); err != nil {
		return "", err
	}

	answer, err := c.api.Ask(ctx, target, question)
	if err != nil {
		c.log.Warn(ctx, "ask question failed", "id", target, "error", err)
		if client.IsUnavailable(err) {
			c.alerter.Alert(MsgAskUnavailable)
		} else {
			c.alerter.Alert(MsgAskFailed)
		}
		return "", err
	}

	c.mu.Lock()
	c.question = answer
	c.mu.Unlock()

	return answer, nil
}

// Row returns the presentation unit for the document with the given id. The
// same Row is returned while the document stays in the list.
func (c *Controller) Row(id string) (*Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) < 0 {
		return nil, false
	}
	r, ok := c.rows[id]
	if !ok {
		r = &Row{
			id:       id,
			snapshot: c.Document,
			onChange: func(ctx context.Context, field models.Field, value any) error {
				_, err := c.EditField(ctx, id, field, value)
				return err
			},
			onDelete: func(ctx context.Context) error {
				return c.Remove(ctx, id)
			},
			summarizer: c.api,
			log:        c.log,
		}
		c.rows[id] = r
	}
	return r, true
}

// PendingWrites returns the number of edits not yet sent to the backend.
func (c *Controller) PendingWrites() int {
	return c.persist.Pending()
}

// Flush sends every pending edit now.
func (c *Controller) Flush() {
	c.persist.Flush()
}

// Close stops scheduling new edits and sends the pending ones.
func (c *Controller) Close() {
	c.persist.Close()
}
