package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func removeRequirement(operation string) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	delete(globalRegistry.requirements, operation)
}

func TestRegisterAndLookup(t *testing.T) {
	op := "reports.generate"
	t.Cleanup(func() { removeRequirement(op) })

	require.NoError(t, Register(Requirement{
		Operation: op,
		Platform:  "CREATE:REPORT",
	}))

	req, ok := Lookup(op)
	require.True(t, ok)
	require.Equal(t, "CREATE:REPORT", req.Platform)
	require.Empty(t, req.Tenant)
}

func TestRegisterNormalisesCodes(t *testing.T) {
	op := "reports.export"
	t.Cleanup(func() { removeRequirement(op) })

	require.NoError(t, Register(Requirement{
		Operation: "  " + op + "  ",
		Platform:  "read:tenant_report",
		Tenant:    " read:report ",
	}))

	req, ok := Lookup(op)
	require.True(t, ok)
	require.Equal(t, "READ:TENANT_REPORT", req.Platform)
	require.Equal(t, "READ:REPORT", req.Tenant)
}

func TestRegisterValidation(t *testing.T) {
	require.ErrorIs(t, Register(Requirement{Platform: "READ:REPORT"}), errEmptyOperation)
	require.ErrorIs(t, Register(Requirement{Operation: "x.y"}), errEmptyPlatformCode)
	require.ErrorIs(t, Register(Requirement{Operation: "x.y", Platform: "nocolon"}), errMalformedCode)
	require.ErrorIs(t, Register(Requirement{Operation: "x.y", Platform: "READ:REPORT", Tenant: "bad"}), errMalformedCode)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	op := "reports.archive"
	t.Cleanup(func() { removeRequirement(op) })

	require.NoError(t, Register(Requirement{Operation: op, Platform: "UPDATE:REPORT"}))
	require.ErrorIs(t, Register(Requirement{Operation: op, Platform: "UPDATE:REPORT"}), errDuplicateOperation)
}

func TestMustRequirementPanicsOnUnknown(t *testing.T) {
	require.Panics(t, func() {
		MustRequirement("no.such.operation")
	})
}

func TestCatalogRegistersTenantFallbacks(t *testing.T) {
	req := MustRequirement("tenant_roles.list")
	require.Equal(t, "READ:ROLE", req.Tenant)
	require.Equal(t, "READ:TENANT_ROLE", req.Platform)

	req = MustRequirement("tenant_analytics.overview")
	require.Equal(t, "READ:THREAT_ANALYTICS", req.Tenant)
	require.Equal(t, "READ:TENANT_ANALYTICS", req.Platform)

	req = MustRequirement("roles.list")
	require.Equal(t, "READ:ROLE", req.Platform)
	require.Empty(t, req.Tenant)
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Contains(t, all, "threat_events.list")

	delete(all, "threat_events.list")
	_, ok := Lookup("threat_events.list")
	require.True(t, ok)
}
