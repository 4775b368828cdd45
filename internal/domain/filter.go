package domain

import (
	"encoding/json"
)

// StringComparator constrains a string field. A nil Eq or In is omitted
// from the wire form; a non-nil but empty In is sent as [] so that an
// explicitly empty list still constrains the field.
type StringComparator struct {
	Eq *string
	In []string
}

// MarshalJSON emits only the clauses that were set.
func (c StringComparator) MarshalJSON() ([]byte, error) {
	clauses := make(map[string]interface{}, 2)
	if c.Eq != nil {
		clauses["eq"] = *c.Eq
	}
	if c.In != nil {
		clauses["in"] = c.In
	}
	return json.Marshal(clauses)
}

// NumberComparator constrains a numeric field.
type NumberComparator struct {
	Eq *float64 `json:"eq,omitempty"`
}

// IDFilter matches a related entity by id.
type IDFilter struct {
	ID *StringComparator `json:"id,omitempty"`
}

// NameFilter matches a related entity by name.
type NameFilter struct {
	Name *StringComparator `json:"name,omitempty"`
}

// IssueFilter is the typed form of Linear's IssueFilter input. Every
// sub-filter is optional; a nil field places no constraint on that field
// and all set fields are combined conjunctively.
type IssueFilter struct {
	Identifier *StringComparator `json:"identifier,omitempty"`
	Project    *IDFilter         `json:"project,omitempty"`
	Team       *IDFilter         `json:"team,omitempty"`
	Assignee   *IDFilter         `json:"assignee,omitempty"`
	State      *NameFilter       `json:"state,omitempty"`
	Priority   *NumberComparator `json:"priority,omitempty"`
}

// IsEmpty reports whether the filter places no constraint at all.
func (f *IssueFilter) IsEmpty() bool {
	return f == nil || (f.Identifier == nil && f.Project == nil && f.Team == nil &&
		f.Assignee == nil && f.State == nil && f.Priority == nil)
}

// HasIdentifier reports whether the filter selects issues by identifier.
func (f *IssueFilter) HasIdentifier() bool {
	return f != nil && f.Identifier != nil
}

// IssueFilterBuilder assembles an IssueFilter one constraint at a time.
type IssueFilterBuilder struct {
	filter IssueFilter
}

// NewIssueFilterBuilder returns a builder with no constraints.
func NewIssueFilterBuilder() *IssueFilterBuilder {
	return &IssueFilterBuilder{}
}

// IdentifierIn restricts results to the given human-readable identifiers.
func (b *IssueFilterBuilder) IdentifierIn(identifiers []string) *IssueFilterBuilder {
	b.filter.Identifier = &StringComparator{In: copyStrings(identifiers)}
	return b
}

// ProjectID restricts results to one project.
func (b *IssueFilterBuilder) ProjectID(id string) *IssueFilterBuilder {
	b.filter.Project = &IDFilter{ID: &StringComparator{Eq: &id}}
	return b
}

// TeamIDs restricts results to any of the given teams.
func (b *IssueFilterBuilder) TeamIDs(ids []string) *IssueFilterBuilder {
	b.filter.Team = &IDFilter{ID: &StringComparator{In: copyStrings(ids)}}
	return b
}

// AssigneeIDs restricts results to any of the given assignees.
func (b *IssueFilterBuilder) AssigneeIDs(ids []string) *IssueFilterBuilder {
	b.filter.Assignee = &IDFilter{ID: &StringComparator{In: copyStrings(ids)}}
	return b
}

// StateNames restricts results to any of the given workflow state names.
func (b *IssueFilterBuilder) StateNames(names []string) *IssueFilterBuilder {
	b.filter.State = &NameFilter{Name: &StringComparator{In: copyStrings(names)}}
	return b
}

// Priority restricts results to one priority value. Zero ("no priority")
// is a valid constraint.
func (b *IssueFilterBuilder) Priority(priority float64) *IssueFilterBuilder {
	b.filter.Priority = &NumberComparator{Eq: &priority}
	return b
}

// Build returns the assembled filter, or nil when no constraint was added.
func (b *IssueFilterBuilder) Build() *IssueFilter {
	if b.filter.IsEmpty() {
		return nil
	}
	f := b.filter
	return &f
}

// copyStrings returns a non-nil copy so callers cannot mutate the filter
// and an empty input still marshals as [].
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
