package application

import (
	"linear-mcp-server/internal/domain"
)

// fieldCoercion normalizes one argument value before it is sent to Linear.
type fieldCoercion func(field string, value interface{}) (interface{}, error)

func passThrough(_ string, value interface{}) (interface{}, error) {
	return value, nil
}

func toNumber(field string, value interface{}) (interface{}, error) {
	n, err := coerceNumber(value)
	if err != nil {
		return nil, domain.NewInvalidFieldError(field, "parameter %s must be a number, got %v", field, value)
	}
	return n, nil
}

// editableFields is the allow-list of issue fields an edit may touch, in
// the order they are checked. priority, estimate and sortOrder are always
// sent as numbers; everything else is sent exactly as given.
var editableFields = []struct {
	name   string
	coerce fieldCoercion
}{
	{"title", passThrough},
	{"description", passThrough},
	{"stateId", passThrough},
	{"priority", toNumber},
	{"assigneeId", passThrough},
	{"labelIds", passThrough},
	{"projectId", passThrough},
	{"cycleId", passThrough},
	{"parentId", passThrough},
	{"estimate", toNumber},
	{"dueDate", passThrough},
	{"sortOrder", toNumber},
	{"teamId", passThrough},
}

// buildPatch copies every allow-listed field present in args into a
// patch. Arguments outside the allow-list are ignored.
func buildPatch(args map[string]interface{}) (domain.IssuePatch, error) {
	patch := domain.IssuePatch{}
	for _, field := range editableFields {
		if !hasParam(args, field.name) {
			continue
		}
		value, err := field.coerce(field.name, args[field.name])
		if err != nil {
			return nil, err
		}
		patch[field.name] = value
	}
	return patch, nil
}
