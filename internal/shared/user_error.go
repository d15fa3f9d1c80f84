package shared

// Error codes attached to UserError values.
const (
	CodeRequired = "REQUIRED"
	CodeInvalid  = "INVALID"
	CodeUnique   = "UNIQUE"
	CodeNotFound = "NOT_FOUND"
	CodeGeneric  = "GRAPHQL_ERROR"
)

// UserError describes a field level problem reported back to a form.
// An empty Field means the error applies to the whole form.
type UserError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FieldErrors splits errors into a per-field lookup and a list of general errors.
// The first error for a field wins.
func FieldErrors(errs []UserError) (map[string]UserError, []UserError) {
	byField := make(map[string]UserError, len(errs))
	var general []UserError
	for _, e := range errs {
		if e.Field == "" {
			general = append(general, e)
			continue
		}
		if _, ok := byField[e.Field]; ok {
			continue
		}
		byField[e.Field] = e
	}
	return byField, general
}
