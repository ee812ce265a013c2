package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// ThreatEventService lists observed threat events.
type ThreatEventService struct {
	db *gorm.DB
}

// NewThreatEventService constructs a ThreatEventService instance.
func NewThreatEventService(db *gorm.DB) (*ThreatEventService, error) {
	if db == nil {
		return nil, errors.New("threat event service: db is required")
	}
	return &ThreatEventService{db: db}, nil
}

// List returns one page of events, newest first. The filter's tenant id
// restricts the result to that tenant; the search term matches source
// address, malware family, and category.
func (s *ThreatEventService) List(ctx context.Context, filter AnalyticsFilter, opts ListOptions) (*PageResult[models.ThreatEvent], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

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
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("source_address LIKE ? OR malware_family LIKE ? OR category LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("threat event service: count events: %w", err)
	}

	sortable := map[string]string{
		"observed_at": "observed_at",
		"severity":    "severity",
		"category":    "category",
	}
	query = applySort(query, opts, sortable, "observed_at DESC")

	var events []models.ThreatEvent
	if err := query.Offset(opts.offset()).Limit(opts.PageSize).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("threat event service: list events: %w", err)
	}

	return &PageResult[models.ThreatEvent]{
		Items:      events,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}
