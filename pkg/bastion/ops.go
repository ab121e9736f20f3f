package bastion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// APIDocument is the subset of the backend's machine-readable API
// description needed to build the dynamic operation table.
type APIDocument struct {
	Paths map[string]map[string]APIOperation `json:"paths" yaml:"paths"`
}

// APIOperation is one verb on one path in the API description.
type APIOperation struct {
	OperationID string         `json:"operationId"          yaml:"operationId"`
	Parameters  []APIParameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// APIParameter is a declared operation parameter.
type APIParameter struct {
	Name     string `json:"name"     yaml:"name"`
	In       string `json:"in"       yaml:"in"`
	Required bool   `json:"required" yaml:"required"`
}

// OperationSpec is one entry of the dispatch table: verb, path template and
// the declared parameter names.
type OperationSpec struct {
	ID     string
	Method string
	Path   string
	Params []APIParameter
}

// OperationArgs carries the arguments of one dynamic call.
type OperationArgs struct {
	// PathParams resolve the {name} segments of the path template.
	PathParams map[string]string
	// Query is appended to the request URL.
	Query url.Values
	// Body is JSON-encoded as the request body.
	Body interface{}
}

// OperationSet is the dynamically built callable namespace of one
// application. The dispatch table is built once from the API description
// and looked up by operation id; no code is generated at runtime.
type OperationSet struct {
	doer Doer
	base string
	ops  map[string]OperationSpec
}

// NewOperationSet builds the dispatch table from an API description. Verbs
// without an operation id are skipped; duplicate ids keep the first entry.
func NewOperationSet(doer Doer, base string, doc *APIDocument) *OperationSet {
	set := &OperationSet{
		doer: doer,
		base: strings.TrimSuffix(base, "/"),
		ops:  make(map[string]OperationSpec),
	}

	for path, verbs := range doc.Paths {
		for verb, op := range verbs {
			if op.OperationID == "" {
				continue
			}

			if _, exists := set.ops[op.OperationID]; exists {
				continue
			}

			set.ops[op.OperationID] = OperationSpec{
				ID:     op.OperationID,
				Method: strings.ToUpper(verb),
				Path:   path,
				Params: op.Parameters,
			}
		}
	}

	return set
}

// ParseAPIDocument decodes a machine-readable API description.
func ParseAPIDocument(raw []byte) (*APIDocument, error) {
	var doc APIDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing API description: %w", err)
	}

	return &doc, nil
}

// Names returns the sorted operation ids in the set.
func (s *OperationSet) Names() []string {
	names := make([]string, 0, len(s.ops))
	for name := range s.ops {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Has reports whether the set contains the given operation id.
func (s *OperationSet) Has(name string) bool {
	_, ok := s.ops[name]

	return ok
}

// Spec returns the dispatch entry for an operation id.
func (s *OperationSet) Spec(name string) (OperationSpec, bool) {
	spec, ok := s.ops[name]

	return spec, ok
}

// Call dispatches the named operation. The path template is resolved from
// args.PathParams; a template parameter left unresolved fails with
// ConfigurationError, an unknown operation id with NotFoundError.
func (s *OperationSet) Call(ctx context.Context, name string, args *OperationArgs) (*Response, error) {
	spec, ok := s.ops[name]
	if !ok {
		return nil, &NotFoundError{Resource: "operation", Key: name}
	}

	if args == nil {
		args = &OperationArgs{}
	}

	path, err := expandTemplate(name, spec.Path, args.PathParams)
	if err != nil {
		return nil, err
	}

	resp, err := s.doer.Do(ctx, &Request{
		Method: spec.Method,
		Path:   s.base + "/" + strings.TrimPrefix(path, "/"),
		Query:  args.Query,
		Body:   args.Body,
	})
	if err != nil {
		return nil, fmt.Errorf("calling operation %s: %w", name, err)
	}

	return resp, nil
}

// expandTemplate substitutes {name} segments and rejects unresolved ones.
func expandTemplate(op, template string, params map[string]string) (string, error) {
	var out strings.Builder

	rest := template

	for {
		start := strings.Index(rest, "{")
		if start < 0 {
			out.WriteString(rest)

			break
		}

		end := strings.Index(rest[start:], "}")
		if end < 0 {
			return "", &ConfigurationError{
				Operation: op,
				Message:   fmt.Sprintf("unterminated template parameter in %q", template),
			}
		}

		name := rest[start+1 : start+end]

		value, ok := params[name]
		if !ok {
			return "", &ConfigurationError{
				Operation: op,
				Message:   fmt.Sprintf("missing path parameter %q", name),
			}
		}

		out.WriteString(rest[:start])
		out.WriteString(url.PathEscape(value))

		rest = rest[start+end+1:]
	}

	return out.String(), nil
}
