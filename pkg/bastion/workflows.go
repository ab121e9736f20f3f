package bastion

import (
	"context"
	"fmt"
	"net/http"
)

// Workflow is one change-request workflow definition.
type Workflow struct {
	*Record

	doer Doer
	base string
}

// Name returns the workflow name.
func (w *Workflow) Name() string {
	return w.String("name")
}

// Active reports whether the workflow accepts new tickets.
func (w *Workflow) Active() bool {
	return w.Bool("active")
}

// Tickets returns the workflow's ticket collection.
func (w *Workflow) Tickets() *TicketsEndpoint {
	return NewTicketsEndpoint(w.doer, w.base+"/packet")
}

// WorkflowsEndpoint accesses the change workflows of a domain.
type WorkflowsEndpoint struct {
	ep   *Endpoint
	doer Doer
}

// NewWorkflowsEndpoint creates the workflow collection accessor.
func NewWorkflowsEndpoint(doer Doer, domainPath string) *WorkflowsEndpoint {
	return &WorkflowsEndpoint{
		ep:   NewEndpoint(doer, domainPath+"/workflow", "workflow"),
		doer: doer,
	}
}

// All returns every workflow.
func (e *WorkflowsEndpoint) All(ctx context.Context) ([]*Workflow, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Get returns the workflow with the given id.
func (e *WorkflowsEndpoint) Get(ctx context.Context, id int) (*Workflow, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// GetByName returns the single workflow with the given name.
func (e *WorkflowsEndpoint) GetByName(ctx context.Context, name string) (*Workflow, error) {
	record, err := e.ep.GetBy(ctx, map[string]string{"name": name})
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Create defines a new workflow.
func (e *WorkflowsEndpoint) Create(ctx context.Context, payload Fields) (*Workflow, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *WorkflowsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

func (e *WorkflowsEndpoint) wrap(record *Record) *Workflow {
	return &Workflow{
		Record: record,
		doer:   e.doer,
		base:   fmt.Sprintf("%s/%d", e.ep.Path(), record.ID()),
	}
}

// Ticket is one change request moving through a workflow.
type Ticket struct {
	*Record

	doer Doer
	base string
}

// Status returns the ticket's workflow status.
func (t *Ticket) Status() string {
	return t.String("status")
}

// Assignee returns the user the current task is assigned to.
func (t *Ticket) Assignee() string {
	return t.String("assignee")
}

// Assign hands the ticket's current task to a user.
func (t *Ticket) Assign(ctx context.Context, username string) error {
	_, err := t.doer.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   t.base + "/assign",
		Body:   Fields{"assignee": username},
	})
	if err != nil {
		return fmt.Errorf("assigning ticket %d: %w", t.ID(), err)
	}

	return nil
}

// Complete finishes the ticket's current task with the given resolution
// ("approve", "reject" or a workflow-specific action).
func (t *Ticket) Complete(ctx context.Context, action string) error {
	_, err := t.doer.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   t.base + "/complete",
		Body:   Fields{"action": action},
	})
	if err != nil {
		return fmt.Errorf("completing ticket %d: %w", t.ID(), err)
	}

	return nil
}

// TicketsEndpoint accesses the tickets of one workflow.
type TicketsEndpoint struct {
	ep   *Endpoint
	doer Doer
}

// NewTicketsEndpoint creates the ticket collection accessor rooted at path.
func NewTicketsEndpoint(doer Doer, path string) *TicketsEndpoint {
	return &TicketsEndpoint{
		ep:   NewEndpoint(doer, path, "ticket"),
		doer: doer,
	}
}

// All returns every ticket in the workflow.
func (e *TicketsEndpoint) All(ctx context.Context) ([]*Ticket, error) {
	records, err := e.ep.All(ctx)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Filter returns the tickets matching the criteria.
func (e *TicketsEndpoint) Filter(ctx context.Context, criteria map[string]string) ([]*Ticket, error) {
	records, err := e.ep.Filter(ctx, criteria)
	if err != nil {
		return nil, err
	}

	return wrapRecords(records, e.wrap), nil
}

// Get returns the ticket with the given id.
func (e *TicketsEndpoint) Get(ctx context.Context, id int) (*Ticket, error) {
	record, err := e.ep.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Create opens a new ticket in the workflow.
func (e *TicketsEndpoint) Create(ctx context.Context, payload Fields) (*Ticket, error) {
	record, err := e.ep.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	return e.wrap(record), nil
}

// Endpoint exposes the underlying generic endpoint.
func (e *TicketsEndpoint) Endpoint() *Endpoint {
	return e.ep
}

func (e *TicketsEndpoint) wrap(record *Record) *Ticket {
	return &Ticket{
		Record: record,
		doer:   e.doer,
		base:   fmt.Sprintf("%s/%d", e.ep.Path(), record.ID()),
	}
}
