package identity

import "strings"

// fullName resolves a display name from identity attributes: the name
// attribute when present, otherwise given and family name joined.
func fullName(attrs map[string]string) string {
	if name := attrs["name"]; name != "" {
		return name
	}

	parts := make([]string, 0, 2)
	if given := attrs["given_name"]; given != "" {
		parts = append(parts, given)
	}
	if family := attrs["family_name"]; family != "" {
		parts = append(parts, family)
	}
	return strings.Join(parts, " ")
}
