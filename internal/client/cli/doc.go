// Package cli provides the interactive pdfdesk shell.
//
// App wraps a controller.Controller and exposes one handler per shell
// command. Each handler takes the command's arguments and prompts for
// anything missing. Output goes through a Renderer, which also receives the
// controller's alerts.
//
// Typical flow: load the list, then select, rename or delete documents, pick
// and upload a PDF, open summaries and ask questions about the selected
// document. Edits are saved in the background after a quiet period and any
// still pending are sent when the shell exits.
//
// The shell is started via App.Run(ctx), which blocks until the user exits.
// See App, Renderer, and runREPL for details.
package cli
