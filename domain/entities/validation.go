package entities

import "strings"

// ValidationResult collects the problems found in a wire definition.
type ValidationResult struct {
	Errors []ValidationError
	Valid  bool
}

// ValidationError locates one problem by its path in the definition,
// e.g. "main.shards[2].params".
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Add records a problem and marks the result invalid.
func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
	r.Valid = false
}

// Err returns nil for a valid result, or one error listing every problem.
func (r *ValidationResult) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	return &InvalidDefinitionError{Errors: r.Errors}
}

// InvalidDefinitionError is returned for definitions that failed validation.
type InvalidDefinitionError struct {
	Errors []ValidationError
}

func (e *InvalidDefinitionError) Error() string {
	var sb strings.Builder
	sb.WriteString("wire validation failed:")
	for _, ve := range e.Errors {
		sb.WriteString("\n- ")
		sb.WriteString(ve.Error())
	}
	return sb.String()
}
