package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

func seedThreatEvents(t *testing.T, db *gorm.DB) {
	t.Helper()

	day := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tenant1 := "tenant-1"

	events := []models.ThreatEvent{
		{Category: "botnet", Protocol: "tcp", SourceAddress: "198.51.100.1", SourceCountry: "US", DestinationASN: "AS64500", Severity: "high", ObservedAt: day},
		{Category: "botnet", Protocol: "tcp", SourceAddress: "198.51.100.2", SourceCountry: "US", DestinationASN: "AS64500", Severity: "low", ObservedAt: day},
		{Category: "scanner", Protocol: "udp", SourceAddress: "203.0.113.9", SourceCountry: "DE", DestinationASN: "AS64501", Severity: "low", ObservedAt: day.AddDate(0, 0, 1)},
		{TenantID: &tenant1, Category: "phishing", Protocol: "tcp", SourceAddress: "192.0.2.77", SourceCountry: "BR", DestinationASN: "AS64502", Severity: "high", ObservedAt: day.AddDate(0, 0, 2)},
	}
	for i := range events {
		require.NoError(t, db.Create(&events[i]).Error)
	}
}

func TestAnalyticsOverview(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), AnalyticsFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 4, overview.TotalEvents)
	require.EqualValues(t, 4, overview.UniqueSources)
	require.EqualValues(t, 3, overview.SourceCountries)
	require.EqualValues(t, 1, overview.TenantsAffected)
}

func TestAnalyticsOverviewTenantScope(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), AnalyticsFilter{TenantID: "tenant-1"})
	require.NoError(t, err)
	require.EqualValues(t, 1, overview.TotalEvents)

	overview, err = svc.Overview(context.Background(), AnalyticsFilter{TenantID: "tenant-2"})
	require.NoError(t, err)
	require.EqualValues(t, 0, overview.TotalEvents)
}

func TestAnalyticsSummary(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background(), AnalyticsFilter{})
	require.NoError(t, err)

	require.Len(t, summary.ByCategory, 3)
	require.Equal(t, "botnet", summary.ByCategory[0].Label)
	require.EqualValues(t, 2, summary.ByCategory[0].Count)

	require.Len(t, summary.BySeverity, 2)
}

func TestAnalyticsTimeline(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	points, err := svc.Timeline(context.Background(), AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, points, 3)
	require.Equal(t, "2026-03-01", points[0].Day)
	require.EqualValues(t, 2, points[0].Count)

	// Bounding the range trims the buckets.
	from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	points, err = svc.Timeline(context.Background(), AnalyticsFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, points, 2)
}

func TestAnalyticsProtocolDistribution(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	counts, err := svc.ProtocolDistribution(context.Background(), AnalyticsFilter{})
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, "tcp", counts[0].Label)
	require.EqualValues(t, 3, counts[0].Count)
}

func TestAnalyticsTopCountriesAndASNs(t *testing.T) {
	db := openServiceTestDB(t)
	seedThreatEvents(t, db)

	svc, err := NewAnalyticsService(db)
	require.NoError(t, err)

	countries, err := svc.TopSourceCountries(context.Background(), AnalyticsFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, countries, 2)
	require.Equal(t, "US", countries[0].Label)

	asns, err := svc.TopASNs(context.Background(), AnalyticsFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, asns, 1)
	require.Equal(t, "AS64500", asns[0].Label)
}
