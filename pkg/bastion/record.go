package bastion

import (
	"context"
	"fmt"
	"sort"
)

// Record is an in-memory view over one resource instance. It tracks which
// fields were mutated locally so Save can send exactly that subset. Records
// are not safe for concurrent use.
type Record struct {
	ep      *Endpoint
	fields  Fields
	initial Fields
	dirty   map[string]struct{}
	invalid bool
}

func newRecord(ep *Endpoint, fields Fields) *Record {
	return &Record{
		ep:      ep,
		fields:  fields,
		initial: fields.clone(),
		dirty:   make(map[string]struct{}),
	}
}

// NewDetachedRecord builds a record that is not bound to an endpoint. Save,
// Refresh and Delete fail on it; useful for composing payloads.
func NewDetachedRecord(fields Fields) *Record {
	return newRecord(nil, fields)
}

// ID returns the record's id field, or zero when absent.
func (r *Record) ID() int {
	return r.Int("id")
}

// Get returns the raw value of a field.
func (r *Record) Get(field string) (interface{}, bool) {
	v, ok := r.fields[field]

	return v, ok
}

// String returns a field as a string, or "" when absent or of another type.
func (r *Record) String(field string) string {
	if s, ok := r.fields[field].(string); ok {
		return s
	}

	return ""
}

// Int returns a field as an int. JSON numbers decode as float64; both are
// accepted.
func (r *Record) Int(field string) int {
	switch v := r.fields[field].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Bool returns a field as a bool, or false when absent or of another type.
func (r *Record) Bool(field string) bool {
	if b, ok := r.fields[field].(bool); ok {
		return b
	}

	return false
}

// Set assigns a field value and marks it dirty.
func (r *Record) Set(field string, value interface{}) {
	r.fields[field] = value
	r.dirty[field] = struct{}{}
}

// Unset removes a field locally. The removal is not propagated by Save.
func (r *Record) Unset(field string) {
	delete(r.fields, field)
	delete(r.dirty, field)
}

// Dirty returns the sorted names of fields mutated since the last
// load, refresh or successful save.
func (r *Record) Dirty() []string {
	names := make([]string, 0, len(r.dirty))
	for name := range r.dirty {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Serialize returns a copy of the current field mapping minus the
// endpoint's masked keys.
func (r *Record) Serialize() Fields {
	out := r.fields.clone()

	if r.ep != nil {
		for _, key := range r.ep.masked {
			delete(out, key)
		}
	}

	return out
}

// Save sends the fields mutated since the last load or refresh, and only
// those. With nothing dirty it is a no-op. The dirty set is cleared on
// success, so an immediately repeated Save sends nothing.
func (r *Record) Save(ctx context.Context) error {
	if r.invalid {
		return ErrRecordInvalid
	}

	if r.ep == nil {
		return ErrRecordDetached
	}

	if len(r.dirty) == 0 {
		return nil
	}

	id := r.ID()
	if id == 0 {
		return ErrRecordNoID
	}

	delta := make(Fields, len(r.dirty))

	for field := range r.dirty {
		if masked(r.ep.masked, field) {
			continue
		}

		delta[field] = r.fields[field]
	}

	// Every dirty field was masked; there is nothing to send.
	if len(delta) == 0 {
		r.dirty = make(map[string]struct{})

		return nil
	}

	updated, err := r.ep.Update(ctx, id, delta)
	if err != nil {
		return fmt.Errorf("saving %s %d: %w", r.ep.resource, id, err)
	}

	if updated != nil {
		r.fields = updated
	}

	r.initial = r.fields.clone()
	r.dirty = make(map[string]struct{})

	return nil
}

// Update assigns all given fields and saves in one call.
func (r *Record) Update(ctx context.Context, data Fields) error {
	for field, value := range data {
		r.Set(field, value)
	}

	return r.Save(ctx)
}

// Refresh re-fetches the record and replaces all fields with the server's
// view. Any local mutations are discarded and the dirty set is cleared.
func (r *Record) Refresh(ctx context.Context) error {
	if r.invalid {
		return ErrRecordInvalid
	}

	if r.ep == nil {
		return ErrRecordDetached
	}

	id := r.ID()
	if id == 0 {
		return ErrRecordNoID
	}

	fresh, err := r.ep.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("refreshing %s %d: %w", r.ep.resource, id, err)
	}

	r.fields = fresh.fields
	r.initial = fresh.fields.clone()
	r.dirty = make(map[string]struct{})

	return nil
}

// Delete removes the resource remotely. The record is invalid for further
// mutating use afterwards.
func (r *Record) Delete(ctx context.Context) error {
	if r.invalid {
		return ErrRecordInvalid
	}

	if r.ep == nil {
		return ErrRecordDetached
	}

	id := r.ID()
	if id == 0 {
		return ErrRecordNoID
	}

	if err := r.ep.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting %s %d: %w", r.ep.resource, id, err)
	}

	r.invalid = true

	return nil
}

// Endpoint returns the endpoint the record is bound to, or nil.
func (r *Record) Endpoint() *Endpoint {
	return r.ep
}

func (f Fields) clone() Fields {
	out := make(Fields, len(f))
	for key, value := range f {
		out[key] = value
	}

	return out
}

func masked(keys []string, field string) bool {
	for _, key := range keys {
		if key == field {
			return true
		}
	}

	return false
}
