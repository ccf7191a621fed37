package validators

// Rule validates one raw field value.
type Rule func(val string) error

// Result aggregates per-field validation errors for a whole form.
type Result struct {
	IsValid bool
	Errors  map[string]string
}

// ValidateForm runs each field's rules in order and stops at the first
// failing rule per field. All fields are checked even when an earlier field
// already failed.
func ValidateForm(data map[string]string, rules map[string][]Rule) Result {
	res := Result{IsValid: true, Errors: make(map[string]string)}
	for field, fieldRules := range rules {
		val := data[field]
		for _, rule := range fieldRules {
			if err := rule(val); err != nil {
				res.Errors[field] = err.Error()
				res.IsValid = false
				break
			}
		}
	}
	return res
}

// Named wraps a field-aware validator into a Rule.
func Named(field string, fn func(field, val string) error) Rule {
	return func(val string) error {
		return fn(field, val)
	}
}
