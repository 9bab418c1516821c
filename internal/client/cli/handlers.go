package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pdfdesk/internal/client/controller"
	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
)

var (
	ErrUsage           = errors.New("usage")
	ErrUnknownDocument = errors.New("unknown document")
)

// row resolves the first argument to a loaded document, prompting for the id
// when it is missing.
func (a *App) row(args []string, usage string) (*controller.Row, error) {
	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = GetSimpleText(a.reader, "Enter document id", a.view.w)
		if err != nil {
			return nil, err
		}
	}
	if id == "" {
		a.view.Println("Usage:", usage)
		return nil, ErrUsage
	}

	r, ok := a.ctrl.Row(id)
	if !ok {
		a.view.Println("Unknown document:", id)
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return r, nil
}

// List prints the local collection without refetching it.
func (a *App) List(ctx context.Context, args []string) error {
	a.view.Documents(a.ctrl.Documents(), a.ctrl.Filter(), func(id string) (string, bool) {
		r, ok := a.ctrl.Row(id)
		if !ok {
			return "", false
		}
		return r.Summary()
	})
	return nil
}

// Filter changes the selection filter and reloads the list.
func (a *App) Filter(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.view.Println("Usage: filter all|selected|unselected")
		return ErrUsage
	}
	f, err := models.ParseFilter(args[0])
	if err != nil {
		a.view.Println("Usage: filter all|selected|unselected")
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if err := a.ctrl.SetFilter(ctx, f); err != nil {
		return err
	}
	return a.List(ctx, nil)
}

// Reload refetches the list with the current filter.
func (a *App) Reload(ctx context.Context, args []string) error {
	if err := a.ctrl.Load(ctx, a.ctrl.Filter()); err != nil {
		return err
	}
	return a.List(ctx, nil)
}

func (a *App) Select(ctx context.Context, args []string) error {
	return a.setSelected(ctx, args, true)
}

func (a *App) Unselect(ctx context.Context, args []string) error {
	return a.setSelected(ctx, args, false)
}

func (a *App) setSelected(ctx context.Context, args []string, selected bool) error {
	r, err := a.row(args, "select|unselect <id>")
	if err != nil {
		return err
	}
	if err := r.SetSelected(ctx, selected); err != nil {
		return err
	}
	d, _ := r.Document()
	a.view.Println(a.view.row(d))
	return nil
}

// Rename sets a new display name. The name is everything after the id, or is
// prompted for.
func (a *App) Rename(ctx context.Context, args []string) error {
	r, err := a.row(args, "rename <id> <name>")
	if err != nil {
		return err
	}

	var name string
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	} else {
		name, err = GetSimpleText(a.reader, "Enter new name", a.view.w)
		if err != nil {
			return err
		}
	}

	if err := r.Rename(ctx, name); err != nil {
		return err
	}
	d, _ := r.Document()
	a.view.Println(a.view.row(d))
	return nil
}

// Delete removes a document once the backend confirms. A refused delete
// keeps the document listed and is only logged.
func (a *App) Delete(ctx context.Context, args []string) error {
	r, err := a.row(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := r.Delete(ctx); err != nil {
		return err
	}
	a.view.Println("Deleted", r.ID())
	return nil
}

// File selects the local PDF for the next upload.
func (a *App) File(ctx context.Context, args []string) error {
	path := strings.Join(args, " ")
	if path == "" {
		var err error
		path, err = GetSimpleText(a.reader, "Enter path to a PDF file", a.view.w)
		if err != nil {
			return err
		}
	}
	a.ctrl.SelectFile(path)
	return nil
}

// Upload sends the selected file, or the one given as argument, and shows
// the created document.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) > 0 {
		a.ctrl.SelectFile(strings.Join(args, " "))
	}
	doc, err := a.ctrl.Upload(ctx)
	if err != nil {
		return err
	}
	a.view.Println("Uploaded:")
	a.view.Println(a.view.row(doc))
	return nil
}

// Summary generates a summary and opens its panel.
func (a *App) Summary(ctx context.Context, args []string) error {
	r, err := a.row(args, "summary <id>")
	if err != nil {
		return err
	}
	a.view.Println("Generating summary...")
	if err := r.GenerateSummary(ctx); err != nil {
		return err
	}
	text, _ := r.Summary()
	d, _ := r.Document()
	a.view.Summary(d, text)
	return nil
}

// CloseSummary hides a summary panel.
func (a *App) CloseSummary(ctx context.Context, args []string) error {
	r, err := a.row(args, "close <id>")
	if err != nil {
		return err
	}
	r.CloseSummary()
	return nil
}

// Question replaces the question buffer with the arguments, or with
// multi-line input when none are given.
func (a *App) Question(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = GetMultiline(a.reader, "Type your question", a.view.w)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}
	a.ctrl.SetQuestion(text)
	return nil
}

// Ask submits the question buffer about the selected document. Arguments, if
// any, replace the buffer first.
func (a *App) Ask(ctx context.Context, args []string) error {
	if len(args) > 0 {
		a.ctrl.SetQuestion(strings.Join(args, " "))
	}
	answer, err := a.ctrl.AskQuestion(ctx)
	if err != nil {
		return err
	}
	a.view.Answer(answer)
	return nil
}

// Flush sends unsaved edits now.
func (a *App) Flush(ctx context.Context, args []string) error {
	n := a.ctrl.PendingWrites()
	a.ctrl.Flush()
	a.view.Printf("Sent %d pending edit(s)\n", n)
	return nil
}
