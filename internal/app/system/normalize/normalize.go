// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AuthMethod trims and lowercases an auth method.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query-string value, preserving case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Facet trims a filter value for category, subcategory, or brand. "all"
// (any case) means no filter and becomes empty.
func Facet(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
