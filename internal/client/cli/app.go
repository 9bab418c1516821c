package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/pdfdesk/internal/client/controller"
	"github.com/dmitrijs2005/pdfdesk/internal/logging"
)

type App struct {
	ctrl   *controller.Controller
	view   *Renderer
	reader *bufio.Reader
	log    logging.Logger
}

// NewApp builds the shell around ctrl. User prompts read from in; output goes
// through view, which should also be the controller's Alerter.
func NewApp(ctrl *controller.Controller, view *Renderer, in io.Reader, log logging.Logger) *App {
	if log == nil {
		log = logging.Discard()
	}
	return &App{ctrl: ctrl, view: view, reader: bufio.NewReader(in), log: log}
}

// Init performs the first load. A failure leaves the list empty and is only
// logged.
func (a *App) Init(ctx context.Context) {
	if err := a.ctrl.Init(ctx); err != nil {
		a.log.Warn(ctx, "initial load failed", "error", err)
	}
}

// Run opens the shell and blocks until the user leaves it or input ends.
// Pending edits are flushed on the way out.
func (a *App) Run(ctx context.Context) {
	defer a.ctrl.Flush()

	a.view.Println("pdfdesk (type 'help' for commands)")
	a.Init(ctx)
	_ = a.List(ctx, nil)

	runREPL(ctx, a, a.status, a.reader)
}

// status is shown in the prompt: the active filter, the selected file if
// any and the number of unsaved edits.
func (a *App) status() string {
	s := a.ctrl.Filter().String()
	if f := a.ctrl.SelectedFile(); f != "" {
		s += " file=" + f
	}
	if n := a.ctrl.PendingWrites(); n > 0 {
		s += fmt.Sprintf(" unsaved=%d", n)
	}
	return "(" + s + ")"
}
