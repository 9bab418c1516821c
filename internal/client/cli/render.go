package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/pdfdesk/internal/client/models"
	"golang.org/x/term"
)

const defaultWidth = 80

var (
	colorAccent = lipgloss.Color("62")
	colorDim    = lipgloss.Color("243")
	colorAlert  = lipgloss.Color("203")

	headerStyle   = lipgloss.NewStyle().Bold(true)
	idStyle       = lipgloss.NewStyle().Foreground(colorDim).Width(6)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	plainRowStyle = lipgloss.NewStyle()
	alertStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAlert)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim).Faint(true)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

// Renderer writes user-facing output. On a terminal the summary and answer
// panels get a border sized to the terminal width; otherwise output is plain
// text.
type Renderer struct {
	mu     sync.Mutex
	w      io.Writer
	styled bool
	width  int
}

// NewRenderer inspects w and enables styling when it is a terminal.
func NewRenderer(w io.Writer) *Renderer {
	r := &Renderer{w: w, width: defaultWidth}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.styled = true
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			r.width = width
		}
	}
	return r
}

// Alert shows a message meant for the user. It satisfies controller.Alerter.
func (r *Renderer) Alert(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, alertStyle.Render("! "+msg))
}

// Println writes a plain line.
func (r *Renderer) Println(a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, a...)
}

// Printf writes formatted text.
func (r *Renderer) Printf(format string, a ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, a...)
}

// SummaryFunc returns the summary text of a document and whether its panel
// is open.
type SummaryFunc func(id string) (string, bool)

// Documents renders the list in order. Open summary panels are shown under
// their row.
func (r *Renderer) Documents(docs []models.Document, filter models.Filter, summary SummaryFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintln(r.w, headerStyle.Render(fmt.Sprintf("Documents (%s)", filter)))
	if len(docs) == 0 {
		fmt.Fprintln(r.w, dimStyle.Render("  no documents"))
		return
	}

	for _, d := range docs {
		fmt.Fprintln(r.w, r.row(d))
		if summary == nil {
			continue
		}
		if text, open := summary(d.ID); open {
			fmt.Fprintln(r.w, r.panel("Summary", text))
		}
	}
}

func (r *Renderer) row(d models.Document) string {
	mark, style := "[ ]", plainRowStyle
	if d.Selected {
		mark, style = "[x]", selectedStyle
	}
	return fmt.Sprintf("%s %s %s", mark, idStyle.Render(d.ID), style.Render(d.Name))
}

// Summary renders a single summary panel.
func (r *Renderer) Summary(d models.Document, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, r.panel("Summary of "+d.Name, text))
}

// Answer renders the answer to a question.
func (r *Renderer) Answer(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.w, r.panel("Answer", text))
}

// panel must be called with r.mu held.
func (r *Renderer) panel(title, body string) string {
	body = strings.TrimRight(body, "\n")
	if !r.styled {
		return title + ":\n" + body
	}
	// border and padding take four columns
	inner := r.width - 4
	if inner < 20 {
		inner = 20
	}
	content := headerStyle.Render(title) + "\n" + body
	return panelStyle.Width(inner).Render(content)
}
