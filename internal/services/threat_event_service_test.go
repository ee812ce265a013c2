package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestThreatEventServiceList(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewThreatEventService(db)
	require.NoError(t, err)

	ctx := context.Background()

	page, err := svc.List(ctx, AnalyticsFilter{}, ListOptions{PageSize: 3})
	require.NoError(t, err)
	require.EqualValues(t, 4, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 3)
	// Newest first by default.
	require.Equal(t, "phishing", page.Items[0].Category)

	page, err = svc.List(ctx, AnalyticsFilter{TenantID: "tenant-1"}, ListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)

	page, err = svc.List(ctx, AnalyticsFilter{Severity: "high"}, ListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	page, err = svc.List(ctx, AnalyticsFilter{}, ListOptions{Search: "198.51.100"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)
}
