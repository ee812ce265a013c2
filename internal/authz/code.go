package authz

import "strings"

// Code identifies a capability within one namespace as an action/resource
// pair, rendered as "ACTION:RESOURCE" (e.g. READ:THREAT_EVENT). Equality
// and lookups operate on the code pair, never on entity identity, so the
// same textual pair can exist independently in the platform and tenant
// namespaces.
type Code struct {
	Action   string
	Resource string
}

// ParseCode normalises a permission code string into its action/resource
// parts. Malformed codes are reported via ok=false; callers treat them as
// a non-match rather than an error, mirroring how unknown grants behave.
func ParseCode(s string) (Code, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Code{}, false
	}

	action := strings.ToUpper(strings.TrimSpace(parts[0]))
	resource := strings.ToUpper(strings.TrimSpace(parts[1]))
	if action == "" || resource == "" {
		return Code{}, false
	}

	return Code{Action: action, Resource: resource}, true
}

// String renders the canonical "ACTION:RESOURCE" form.
func (c Code) String() string {
	return c.Action + ":" + c.Resource
}
