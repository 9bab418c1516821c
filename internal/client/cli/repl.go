package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/pdfdesk/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	List(ctx context.Context, args []string) error
	Reload(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Select(ctx context.Context, args []string) error
	Unselect(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	File(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Summary(ctx context.Context, args []string) error
	CloseSummary(ctx context.Context, args []string) error
	Question(ctx context.Context, args []string) error
	Ask(ctx context.Context, args []string) error
	Flush(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  (l)ist                          show documents
  reload                          fetch the list again
  filter all|selected|unselected  change the filter and reload
  select <id> | unselect <id>     toggle the selected flag
  rename <id> [name]              rename a document
  delete <id>                     delete a document
  file [path]                     choose a PDF to upload
  upload [path]                   upload the chosen PDF
  summary <id> | close <id>       open or close a summary
  question [text]                 set the question
  ask [text]                      ask about the selected document
  flush                           save pending edits now
  exit | quit                     leave the program`

// runREPL starts a read–eval–print loop over reader.
//
// The first token of each line is the command, the rest are its arguments.
// Each command runs in its own span. Errors returned by handlers are ignored
// here; handlers alert or log on their own. The loop exits on EOF or when the
// user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("pdfdesk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "l", "list":
			handler = a.List
		case "reload":
			handler = a.Reload
		case "filter":
			handler = a.Filter
		case "select":
			handler = a.Select
		case "unselect":
			handler = a.Unselect
		case "rename":
			handler = a.Rename
		case "delete":
			handler = a.Delete
		case "file":
			handler = a.File
		case "upload":
			handler = a.Upload
		case "summary":
			handler = a.Summary
		case "close":
			handler = a.CloseSummary
		case "question":
			handler = a.Question
		case "ask":
			handler = a.Ask
		case "flush":
			handler = a.Flush
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if handler != nil {
			_ = runCommand(ctx, cmd, args, handler)
		}
	}
}

func runCommand(ctx context.Context, cmd string, args []string, handler func(context.Context, []string) error) error {
	ctx, span := tracing.Start(ctx, "command "+cmd)
	defer span.End()
	span.SetAttributes(attribute.String("pdfdesk.command", cmd), attribute.Int("pdfdesk.args", len(args)))

	err := handler(ctx, args)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
