package filter

import "strings"

// Option is a categorical facet value. The zero value means "no constraint"
// (the user picked the all sentinel); a Specific option constrains matches to
// its value. Keeping the sentinel in the type avoids comparing against magic
// strings at every use site.
type Option struct {
	value string
}

// All is the unconstrained option.
var All = Option{}

// Specific returns an option constraining to value. An empty value is All.
func Specific(value string) Option {
	return Option{value: strings.TrimSpace(value)}
}

func (o Option) IsAll() bool {
	return o.value == ""
}

// Value returns the constraint value, empty for All.
func (o Option) Value() string {
	return o.value
}

// Matches reports whether candidate satisfies the option,
// case-insensitively. All matches everything.
func (o Option) Matches(candidate string) bool {
	return o.value == "" || strings.EqualFold(o.value, candidate)
}
