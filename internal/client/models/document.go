// Package models defines the client-side view of documents tracked by the
// PDF backend.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Field names a document attribute that can be edited from the client.
type Field string

const (
	FieldID       Field = "id"
	FieldName     Field = "name"
	FieldSelected Field = "selected"
)

var (
	ErrMissingID         = errors.New("document has no id")
	ErrReadOnlyField     = errors.New("field is read-only")
	ErrInvalidFieldValue = errors.New("invalid value for field")
)

// Document is a PDF record as returned by the backend.
//
// Only ID, Name and Selected are interpreted. Any other attribute the backend
// sends is kept in Extra as raw JSON and written back unchanged on update.
type Document struct {
	ID       string
	Name     string
	Selected bool
	Extra    map[string]json.RawMessage

	// numericID remembers that the backend sent the id as a JSON number.
	numericID bool
	// name and selected remember whether the backend omitted them or sent
	// null, so an unedited document is written back in the same shape.
	name     presence
	selected presence
}

type presence uint8

const (
	present presence = iota
	absent
	null
)

func presenceOf(raw map[string]json.RawMessage, f Field) presence {
	v, ok := raw[string(f)]
	if !ok {
		return absent
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return null
	}
	return present
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, ok := raw[string(FieldID)]
	if !ok || bytes.Equal(bytes.TrimSpace(id), []byte("null")) {
		return ErrMissingID
	}

	var out Document
	id = bytes.TrimSpace(id)
	if len(id) > 0 && id[0] == '"' {
		if err := json.Unmarshal(id, &out.ID); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(id, &n); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		out.ID = n.String()
		out.numericID = true
	}

	out.name = presenceOf(raw, FieldName)
	out.selected = presenceOf(raw, FieldSelected)

	if v, ok := raw[string(FieldName)]; ok {
		var name *string
		if err := json.Unmarshal(v, &name); err != nil {
			return fmt.Errorf("decode name: %w", err)
		}
		if name != nil {
			out.Name = *name
		}
	}

	if v, ok := raw[string(FieldSelected)]; ok {
		var sel *bool
		if err := json.Unmarshal(v, &sel); err != nil {
			return fmt.Errorf("decode selected: %w", err)
		}
		if sel != nil {
			out.Selected = *sel
		}
	}

	for k, v := range raw {
		switch Field(k) {
		case FieldID, FieldName, FieldSelected:
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]json.RawMessage, len(raw))
		}
		out.Extra[k] = append(json.RawMessage(nil), v...)
	}

	*d = out
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d.Extra)+3)
	for k, v := range d.Extra {
		out[k] = v
	}

	var (
		id  []byte
		err error
	)
	if d.numericID {
		id = []byte(d.ID)
	} else {
		id, err = json.Marshal(d.ID)
		if err != nil {
			return nil, err
		}
	}
	out[string(FieldID)] = id

	if err := put(out, FieldName, d.name, d.Name); err != nil {
		return nil, err
	}
	if err := put(out, FieldSelected, d.selected, d.Selected); err != nil {
		return nil, err
	}

	return json.Marshal(out)
}

func put(out map[string]json.RawMessage, f Field, p presence, v any) error {
	switch p {
	case absent:
		return nil
	case null:
		out[string(f)] = json.RawMessage("null")
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out[string(f)] = b
	return nil
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	c := d
	if d.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// With returns a copy of d with field replaced by value.
//
// name takes a string and selected a bool. Any other field is stored as an
// opaque pass-through attribute.
func (d Document) With(field Field, value any) (Document, error) {
	c := d.Clone()

	switch field {
	case FieldID:
		return d, ErrReadOnlyField
	case FieldName:
		s, ok := value.(string)
		if !ok {
			return d, fmt.Errorf("%w %q: want string, got %T", ErrInvalidFieldValue, field, value)
		}
		c.Name = s
		c.name = present
	case FieldSelected:
		b, ok := value.(bool)
		if !ok {
			return d, fmt.Errorf("%w %q: want bool, got %T", ErrInvalidFieldValue, field, value)
		}
		c.Selected = b
		c.selected = present
	default:
		if field == "" {
			return d, fmt.Errorf("%w: empty field name", ErrInvalidFieldValue)
		}
		b, err := json.Marshal(value)
		if err != nil {
			return d, fmt.Errorf("%w %q: %v", ErrInvalidFieldValue, field, err)
		}
		if c.Extra == nil {
			c.Extra = make(map[string]json.RawMessage, 1)
		}
		c.Extra[string(field)] = b
	}

	return c, nil
}

// Summary is the body returned by the summary endpoint.
type Summary struct {
	Sumar string `json:"sumar"`
}

// Question is the body sent to the question-answering endpoint.
type Question struct {
	Question string `json:"question"`
}
