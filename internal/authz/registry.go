package authz

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Requirement declares, statically, the permission an operation needs.
// Platform is always required. Tenant is set only for tenant-context
// operations; its code may differ textually from the platform one (the
// platform code acts as the fallback, never as a substitute).
type Requirement struct {
	Operation string
	Platform  string
	Tenant    string
}

type requirementRegistry struct {
	mu           sync.RWMutex
	requirements map[string]Requirement
}

var globalRegistry = &requirementRegistry{
	requirements: make(map[string]Requirement),
}

var (
	errEmptyOperation     = errors.New("authz: operation is required")
	errEmptyPlatformCode  = errors.New("authz: platform permission code is required")
	errMalformedCode      = errors.New("authz: malformed permission code")
	errDuplicateOperation = errors.New("authz: operation already registered")
	errUnknownRequirement = errors.New("authz: unknown operation")
)

// Register adds a requirement descriptor to the global registry. Codes are
// validated once here, at declaration time, not per request.
func Register(req Requirement) error {
	op := strings.TrimSpace(req.Operation)
	if op == "" {
		return errEmptyOperation
	}

	platform := strings.TrimSpace(req.Platform)
	if platform == "" {
		return errEmptyPlatformCode
	}
	code, ok := ParseCode(platform)
	if !ok {
		return fmt.Errorf("%w: %q", errMalformedCode, req.Platform)
	}
	req.Platform = code.String()

	if tenant := strings.TrimSpace(req.Tenant); tenant != "" {
		tenantCode, tenantOK := ParseCode(tenant)
		if !tenantOK {
			return fmt.Errorf("%w: %q", errMalformedCode, req.Tenant)
		}
		req.Tenant = tenantCode.String()
	} else {
		req.Tenant = ""
	}
	req.Operation = op

	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	if _, exists := globalRegistry.requirements[op]; exists {
		return fmt.Errorf("%w: %s", errDuplicateOperation, op)
	}

	globalRegistry.requirements[op] = req
	return nil
}

// Lookup returns the requirement registered for the operation.
func Lookup(operation string) (Requirement, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	req, ok := globalRegistry.requirements[strings.TrimSpace(operation)]
	return req, ok
}

// MustRequirement returns the registered requirement or panics. Route
// wiring calls this at start-up, so a missing declaration fails fast
// rather than at request time.
func MustRequirement(operation string) Requirement {
	req, ok := Lookup(operation)
	if !ok {
		panic(fmt.Errorf("%w: %s", errUnknownRequirement, operation))
	}
	return req
}

// All returns a copy of every registered requirement keyed by operation.
func All() map[string]Requirement {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	out := make(map[string]Requirement, len(globalRegistry.requirements))
	for op, req := range globalRegistry.requirements {
		out[op] = req
	}
	return out
}
