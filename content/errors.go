package content

import (
	"fmt"
	"strings"
)

// ValidationError reports the first constraint a content record violated.
type ValidationError struct {
	Source     string // file the record came from, if any
	Field      string // frontmatter key, e.g. "title"
	Constraint string // rule name, e.g. "max", "oneof", "url"
	Param      string // rule parameter, e.g. "60"
}

func (e *ValidationError) Error() string {
	msg := e.Field + " " + describeConstraint(e.Constraint, e.Param)
	if e.Source != "" {
		return fmt.Sprintf("content: %s: %s", e.Source, msg)
	}
	return "content: " + msg
}

func describeConstraint(constraint, param string) string {
	switch constraint {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + param + " characters"
	case "min":
		return "must be at least " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "url":
		return "must be a valid URL"
	case "date":
		return "must be a valid date (got " + param + ")"
	case "unique":
		return param + " is already used by another record"
	case "slug":
		return "must be lowercase letters, digits and dashes separated by \"/\" (got " + param + ")"
	case "integer":
		return "must be a whole number (got " + param + ")"
	case "syntax":
		return "could not be parsed: " + param
	default:
		if param != "" {
			return "failed " + constraint + "=" + param
		}
		return "failed " + constraint
	}
}
