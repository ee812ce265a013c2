package authz

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/models"
)

// PageView is one accessible page inside a page-group view.
type PageView struct {
	ID       string  `json:"id"`
	Code     string  `json:"code"`
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	ParentID *string `json:"parent_id,omitempty"`
}

// PageGroupView is a page-group copy containing only the pages a
// permission set unlocks, never the group's full page list.
type PageGroupView struct {
	ID    string     `json:"id"`
	Code  string     `json:"code"`
	Name  string     `json:"name"`
	Icon  string     `json:"icon"`
	Pages []PageView `json:"pages"`
}

// PageTree turns flat permission-id sets into deduplicated page-group
// trees. Groups with no accessible pages are omitted, as are pages that
// belong to no group.
type PageTree struct {
	db     *gorm.DB
	grants *GrantStore
}

// NewPageTree constructs a page tree builder over the given database.
func NewPageTree(db *gorm.DB) (*PageTree, error) {
	if db == nil {
		return nil, errors.New("page tree: db is required")
	}
	grants, err := NewGrantStore(db)
	if err != nil {
		return nil, err
	}
	return &PageTree{db: db, grants: grants}, nil
}

// AccessiblePages builds the page-group tree unlocked by the supplied
// permission ids. The input set must already be scope-resolved; platform
// and tenant ids are never mixed. Output is sorted by group and page code
// so repeated calls with the same input yield identical trees.
func (t *PageTree) AccessiblePages(ctx context.Context, permissionIDs []string, scope Scope) ([]PageGroupView, error) {
	ctx = ensureContext(ctx)

	pagesByPermission, err := t.grants.PagesForPermissions(ctx, permissionIDs, scope)
	if err != nil {
		return nil, err
	}

	reachable := make(map[string]struct{})
	for _, pageIDs := range pagesByPermission {
		for _, id := range pageIDs {
			reachable[id] = struct{}{}
		}
	}

	catalog, err := t.loadCatalog(ctx, reachable)
	if err != nil {
		return nil, err
	}

	return catalog.build(reachable), nil
}

// pageCatalog holds the pages and groups referenced by one projection so
// several roles can be assembled from a single batch of reads.
type pageCatalog struct {
	pages  map[string]models.Page
	groups map[string]models.PageGroup
}

// loadCatalog fetches the referenced pages and their groups. Page ids with
// no surviving row (stale links) simply do not appear in the catalog.
func (t *PageTree) loadCatalog(ctx context.Context, pageIDs map[string]struct{}) (pageCatalog, error) {
	catalog := pageCatalog{
		pages:  make(map[string]models.Page, len(pageIDs)),
		groups: make(map[string]models.PageGroup),
	}
	if len(pageIDs) == 0 {
		return catalog, nil
	}

	ids := make([]string, 0, len(pageIDs))
	for id := range pageIDs {
		ids = append(ids, id)
	}

	var pages []models.Page
	if err := t.db.WithContext(ctx).Where("id IN ?", ids).Find(&pages).Error; err != nil {
		return catalog, fmt.Errorf("page tree: load pages: %w", err)
	}

	groupIDs := make([]string, 0, len(pages))
	seenGroups := make(map[string]struct{})
	for _, page := range pages {
		catalog.pages[page.ID] = page
		if page.PageGroupID == nil {
			continue
		}
		if _, ok := seenGroups[*page.PageGroupID]; ok {
			continue
		}
		seenGroups[*page.PageGroupID] = struct{}{}
		groupIDs = append(groupIDs, *page.PageGroupID)
	}

	if len(groupIDs) == 0 {
		return catalog, nil
	}

	var groups []models.PageGroup
	if err := t.db.WithContext(ctx).Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
		return catalog, fmt.Errorf("page tree: load page groups: %w", err)
	}
	for _, group := range groups {
		catalog.groups[group.ID] = group
	}

	return catalog, nil
}

// build assembles the tree for one reachable-page set. Pages without a
// group contribute reachability but are omitted from the tree; groups
// whose subset ends up empty are omitted entirely.
func (c pageCatalog) build(reachable map[string]struct{}) []PageGroupView {
	pagesByGroup := make(map[string][]PageView)
	for id := range reachable {
		page, ok := c.pages[id]
		if !ok {
			continue
		}
		if page.PageGroupID == nil {
			continue
		}
		groupID := *page.PageGroupID
		if _, ok := c.groups[groupID]; !ok {
			continue
		}
		pagesByGroup[groupID] = append(pagesByGroup[groupID], PageView{
			ID:       page.ID,
			Code:     page.Code,
			Name:     page.Name,
			Path:     page.Path,
			ParentID: page.ParentID,
		})
	}

	views := make([]PageGroupView, 0, len(pagesByGroup))
	for groupID, pages := range pagesByGroup {
		group := c.groups[groupID]
		sort.Slice(pages, func(i, j int) bool { return pages[i].Code < pages[j].Code })
		views = append(views, PageGroupView{
			ID:    group.ID,
			Code:  group.Code,
			Name:  group.Name,
			Icon:  group.Icon,
			Pages: pages,
		})
	}

	sort.Slice(views, func(i, j int) bool { return views[i].Code < views[j].Code })
	return views
}
