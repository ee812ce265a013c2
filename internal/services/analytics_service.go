package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// AnalyticsFilter bounds an aggregation. An empty TenantID aggregates the
// whole platform; a set one restricts to that tenant's events.
type AnalyticsFilter struct {
	TenantID string
	From     *time.Time
	To       *time.Time
	Category string
	Severity string
}

// Overview is the headline figures for a dashboard landing page.
type Overview struct {
	TotalEvents     int64 `json:"total_events"`
	UniqueSources   int64 `json:"unique_sources"`
	SourceCountries int64 `json:"source_countries"`
	TenantsAffected int64 `json:"tenants_affected"`
}

// BucketCount is one labelled aggregation bucket.
type BucketCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// TimelinePoint is the event count for one observation day.
type TimelinePoint struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// Summary groups event counts by category and severity.
type Summary struct {
	ByCategory []BucketCount `json:"by_category"`
	BySeverity []BucketCount `json:"by_severity"`
}

// AnalyticsService runs aggregated reads over observed threat events.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService constructs an AnalyticsService instance.
func NewAnalyticsService(db *gorm.DB) (*AnalyticsService, error) {
	if db == nil {
		return nil, errors.New("analytics service: db is required")
	}
	return &AnalyticsService{db: db}, nil
}

// Overview returns the headline counters for the filtered event set.
func (s *AnalyticsService) Overview(ctx context.Context, filter AnalyticsFilter) (*Overview, error) {
	ctx = ensureContext(ctx)

	base := s.filtered(ctx, filter)

	var out Overview
	if err := base.Count(&out.TotalEvents).Error; err != nil {
		return nil, fmt.Errorf("analytics service: total events: %w", err)
	}
	if err := s.filtered(ctx, filter).Distinct("source_address").Count(&out.UniqueSources).Error; err != nil {
		return nil, fmt.Errorf("analytics service: unique sources: %w", err)
	}
	if err := s.filtered(ctx, filter).Where("source_country <> ''").Distinct("source_country").Count(&out.SourceCountries).Error; err != nil {
		return nil, fmt.Errorf("analytics service: source countries: %w", err)
	}
	if err := s.filtered(ctx, filter).Where("tenant_id IS NOT NULL").Distinct("tenant_id").Count(&out.TenantsAffected).Error; err != nil {
		return nil, fmt.Errorf("analytics service: tenants affected: %w", err)
	}

	return &out, nil
}

// Summary returns event counts grouped by category and severity.
func (s *AnalyticsService) Summary(ctx context.Context, filter AnalyticsFilter) (*Summary, error) {
	ctx = ensureContext(ctx)

	byCategory, err := s.groupCounts(ctx, filter, "category")
	if err != nil {
		return nil, err
	}
	bySeverity, err := s.groupCounts(ctx, filter, "severity")
	if err != nil {
		return nil, err
	}

	return &Summary{ByCategory: byCategory, BySeverity: bySeverity}, nil
}

// Timeline returns daily event counts ordered by day.
func (s *AnalyticsService) Timeline(ctx context.Context, filter AnalyticsFilter) ([]TimelinePoint, error) {
	ctx = ensureContext(ctx)

	var points []TimelinePoint
	err := s.filtered(ctx, filter).
		Select("DATE(observed_at) AS day, COUNT(*) AS count").
		Group("DATE(observed_at)").
		Order("day ASC").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("analytics service: timeline: %w", err)
	}
	return points, nil
}

// ProtocolDistribution returns event counts per protocol, largest first.
func (s *AnalyticsService) ProtocolDistribution(ctx context.Context, filter AnalyticsFilter) ([]BucketCount, error) {
	ctx = ensureContext(ctx)
	return s.groupCounts(ctx, filter, "protocol")
}

// TopSourceCountries returns the most frequent source countries.
func (s *AnalyticsService) TopSourceCountries(ctx context.Context, filter AnalyticsFilter, limit int) ([]BucketCount, error) {
	ctx = ensureContext(ctx)
	return s.topCounts(ctx, filter, "source_country", limit)
}

// TopASNs returns the most frequently targeted destination ASNs.
func (s *AnalyticsService) TopASNs(ctx context.Context, filter AnalyticsFilter, limit int) ([]BucketCount, error) {
	ctx = ensureContext(ctx)
	return s.topCounts(ctx, filter, "destination_asn", limit)
}

func (s *AnalyticsService) groupCounts(ctx context.Context, filter AnalyticsFilter, column string) ([]BucketCount, error) {
	var counts []BucketCount
	err := s.filtered(ctx, filter).
		Select(column + " AS label, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("analytics service: group by %s: %w", column, err)
	}
	return counts, nil
}

func (s *AnalyticsService) topCounts(ctx context.Context, filter AnalyticsFilter, column string, limit int) ([]BucketCount, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var counts []BucketCount
	err := s.filtered(ctx, filter).
		Select(column + " AS label, COUNT(*) AS count").
		Where(column + " <> ''").
		Group(column).
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("analytics service: top %s: %w", column, err)
	}
	return counts, nil
}

func (s *AnalyticsService) filtered(ctx context.Context, filter AnalyticsFilter) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.ThreatEvent{})
	if filter.TenantID != "" {
		query = query.Where("tenant_id = ?", filter.TenantID)
	}
	if filter.From != nil {
		query = query.Where("observed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("observed_at <= ?", *filter.To)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	return query
}
