package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/pdfdesk/internal/buildinfo"
	"github.com/dmitrijs2005/pdfdesk/internal/client/cli"
	"github.com/dmitrijs2005/pdfdesk/internal/client/client"
	"github.com/dmitrijs2005/pdfdesk/internal/client/config"
	"github.com/dmitrijs2005/pdfdesk/internal/client/controller"
	"github.com/dmitrijs2005/pdfdesk/internal/logging"
	"github.com/dmitrijs2005/pdfdesk/internal/tracing"
	ucli "github.com/urfave/cli/v2"
)

const runtimeKey = "runtime"

type runtime struct {
	log      logging.Logger
	ctrl     *controller.Controller
	app      *cli.App
	shutdown tracing.ShutdownFunc
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func newCLI() *ucli.App {
	return &ucli.App{
		Name:     "pdfdesk",
		Usage:    "manage and query PDF documents on a question-answering backend",
		Version:  buildinfo.String(),
		Metadata: map[string]any{},
		Flags:    config.Flags(),
		Before:   setup,
		After:    teardown,
		Action:   shell,
		Commands: []*ucli.Command{
			{
				Name:   "shell",
				Usage:  "open the interactive shell (default)",
				Action: shell,
			},
			{
				Name:  "list",
				Usage: "print the documents",
				Flags: []ucli.Flag{
					&ucli.StringFlag{Name: "selected", Usage: "true or false to filter by the selected flag"},
				},
				Action: list,
			},
			oneShot("upload", "<file>", "upload a PDF file", (*cli.App).Upload),
			oneShot("rename", "<id> <name>", "rename a document", (*cli.App).Rename),
			oneShot("select", "<id>", "mark a document as selected", (*cli.App).Select),
			oneShot("unselect", "<id>", "clear the selected flag of a document", (*cli.App).Unselect),
			oneShot("delete", "<id>", "delete a document", (*cli.App).Delete),
			oneShot("summary", "<id>", "generate and print a summary", (*cli.App).Summary),
			oneShot("ask", "<question>", "ask a question about the selected document", (*cli.App).Ask),
		},
	}
}

// setup resolves configuration and wires the logger, tracer, transport,
// controller and shell.
func setup(c *ucli.Context) error {
	cfg, err := config.FromCLI(c)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		return err
	}

	shutdown, err := tracing.Init(c.Context, logger)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	api, err := client.NewHTTPClient(cfg.APIURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	view := cli.NewRenderer(os.Stdout)
	ctrl := controller.New(api, view, logger, cfg.DebounceDelay)

	c.App.Metadata[runtimeKey] = &runtime{
		log:      logger,
		ctrl:     ctrl,
		app:      cli.NewApp(ctrl, view, os.Stdin, logger),
		shutdown: shutdown,
	}
	logger.Debug(c.Context, "configured", "api_url", cfg.APIURL, "debounce", cfg.DebounceDelay.String())
	return nil
}

// teardown sends pending edits and flushes traces.
func teardown(c *ucli.Context) error {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil
	}
	rt.ctrl.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rt.shutdown(ctx); err != nil {
		rt.log.Warn(ctx, "tracing shutdown failed", "error", err)
	}
	return nil
}

func getRuntime(c *ucli.Context) (*runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*runtime)
	if !ok {
		return nil, errors.New("not initialized")
	}
	return rt, nil
}

func shell(c *ucli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	buildinfo.PrintBuildData(os.Stdout)
	rt.app.Run(c.Context)
	return nil
}

func list(c *ucli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	if c.IsSet("selected") {
		err = rt.app.Filter(c.Context, []string{c.String("selected")})
	} else {
		rt.app.Init(c.Context)
		err = rt.app.List(c.Context, nil)
	}
	return exitOnError(rt, c, err)
}

// oneShot builds a command that loads the list, runs a single shell handler
// with the positional arguments and exits.
func oneShot(name, args, usage string, handler func(*cli.App, context.Context, []string) error) *ucli.Command {
	return &ucli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: args,
		Action: func(c *ucli.Context) error {
			rt, err := getRuntime(c)
			if err != nil {
				return err
			}
			rt.app.Init(c.Context)
			return exitOnError(rt, c, handler(rt.app, c.Context, c.Args().Slice()))
		},
	}
}

// exitOnError maps a handler failure to a non-zero exit. Handlers have
// already told the user what went wrong.
func exitOnError(rt *runtime, c *ucli.Context, err error) error {
	if err == nil {
		return nil
	}
	rt.log.Debug(c.Context, "command failed", "command", c.Command.Name, "error", err)
	return ucli.Exit("", 1)
}
