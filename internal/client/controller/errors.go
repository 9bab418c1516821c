package controller

import "errors"

// Validation failures. Each is reported to the Alerter before any request is
// made.
var (
	ErrNoFileSelected     = errors.New("no file selected")
	ErrNotPDF             = errors.New("file is not a PDF")
	ErrNoDocumentSelected = errors.New("no document selected")
	ErrEmptyQuestion      = errors.New("question is empty")
)

// User-facing messages.
const (
	MsgNoFileSelected     = "Please select file to load."
	MsgNotPDF             = "Only PDF files can be loaded."
	MsgUploadFailed       = "Error loading file."
	MsgNoDocumentSelected = "Please select a PDF before asking a question."
	MsgEmptyQuestion      = "Please type a question."
	MsgAskFailed          = "Error processing the question."
	MsgAskUnavailable     = "Error connecting to the backend."
)

// Alerter receives messages meant for the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a plain function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }
