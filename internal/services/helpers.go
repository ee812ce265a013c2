package services

import (
	"context"
	"sort"
	"strings"

	"github.com/argussec/argus/internal/authz"
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func normaliseIDs(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func sortPermissionDetails(details []authz.PermissionDetail) {
	sort.Slice(details, func(i, j int) bool {
		if details[i].ResourceCode != details[j].ResourceCode {
			return details[i].ResourceCode < details[j].ResourceCode
		}
		return details[i].ActionCode < details[j].ActionCode
	})
}
