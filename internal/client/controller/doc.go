// Package controller keeps the client-side mirror of the backend's document
// collection in sync with user actions.
//
// The Controller is the only writer of the collection. Edits are applied
// locally at once and pushed to the backend after a per-document quiet
// period; deletions and uploads are applied only after the backend confirms
// them. Rows are per-document presentation units that read snapshots and
// route every change back through the Controller.
//
// Known gaps:
//   - a failed deferred write is logged but not rolled back locally;
//   - a write still queued for a document that gets deleted will fire anyway;
//   - responses are applied in arrival order, so an older list response that
//     arrives last wins.
package controller
