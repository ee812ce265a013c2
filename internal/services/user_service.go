package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/argussec/argus/internal/authz"
	"github.com/argussec/argus/internal/models"
	apperrors "github.com/argussec/argus/pkg/errors"
)

var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.New("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	// ErrUnknownRole signals a role id outside the platform namespace.
	ErrUnknownRole = apperrors.New("UNKNOWN_ROLE", "Unknown role id", http.StatusBadRequest)
	// ErrSelfDelete rejects a user deleting their own account.
	ErrSelfDelete = apperrors.New("SELF_DELETE", "Cannot delete own account", http.StatusBadRequest)
)

// CreateUserInput captures new platform user details.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Name     string
	RoleIDs  []string
}

// UpdateUserInput describes mutable user fields.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Name     *string
	IsActive *bool
}

// UserService manages platform operator accounts and their role assignments.
type UserService struct {
	db           *gorm.DB
	auditService *AuditService
}

// NewUserService constructs a UserService instance.
func NewUserService(db *gorm.DB, auditService *AuditService) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	return &UserService{db: db, auditService: auditService}, nil
}

// List returns one page of users with their roles preloaded.
func (s *UserService) List(ctx context.Context, opts ListOptions) (*PageResult[models.User], error) {
	ctx = ensureContext(ctx)
	opts.normalise()

	query := s.db.WithContext(ctx).Model(&models.User{})
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where("username LIKE ? OR email LIKE ? OR name LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("user service: count users: %w", err)
	}

	sortable := map[string]string{
		"username":   "username",
		"email":      "email",
		"created_at": "created_at",
	}
	query = applySort(query, opts, sortable, "username ASC")

	var users []models.User
	if err := query.Preload("Roles").Offset(opts.offset()).Limit(opts.PageSize).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}

	return &PageResult[models.User]{
		Items:      users,
		Total:      total,
		Page:       opts.Page,
		PageSize:   opts.PageSize,
		TotalPages: totalPages(total, opts.PageSize),
	}, nil
}

// Get returns a single user with roles preloaded.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)
	return s.loadUser(ctx, id, true)
}

// Create registers a new platform user. The password is stored hashed;
// any supplied role ids must all exist.
func (s *UserService) Create(ctx context.Context, actor authz.Principal, input CreateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" || email == "" {
		return nil, apperrors.NewBadRequest("username and email are required")
	}
	if input.Password == "" {
		return nil, apperrors.NewBadRequest("password is required")
	}

	roles, err := s.loadRoles(ctx, input.RoleIDs)
	if err != nil {
		return nil, err
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashed,
		Name:     strings.TrimSpace(input.Name),
		IsActive: true,
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("username or email already in use")
		}
		return nil, fmt.Errorf("user service: create user: %w", err)
	}

	if len(roles) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
			return nil, fmt.Errorf("user service: assign roles: %w", err)
		}
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "user.create",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"username": user.Username},
	})

	return user, nil
}

// Update modifies user account fields.
func (s *UserService) Update(ctx context.Context, actor authz.Principal, id string, input UpdateUserInput) (*models.User, error) {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, id, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Username != nil {
		if username := strings.TrimSpace(*input.Username); username != "" && username != user.Username {
			updates["username"] = username
		}
	}
	if input.Email != nil {
		if email := strings.TrimSpace(*input.Email); email != "" && email != user.Email {
			updates["email"] = email
		}
	}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.NewBadRequest("username or email already in use")
		}
		return nil, fmt.Errorf("user service: update user: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "user.update",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"updates": updates},
	})

	return user, nil
}

// Delete soft-deletes a user account. The actor cannot remove themselves.
func (s *UserService) Delete(ctx context.Context, actor authz.Principal, id string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, id, false)
	if err != nil {
		return err
	}
	if user.ID == actor.UserID {
		return ErrSelfDelete
	}

	if err := s.db.WithContext(ctx).Delete(user).Error; err != nil {
		return fmt.Errorf("user service: delete user: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "user.delete",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"username": user.Username},
	})

	return nil
}

// AssignRoles replaces the user's role set with the supplied platform role
// ids. Unknown ids reject the whole request.
func (s *UserService) AssignRoles(ctx context.Context, actor authz.Principal, id string, roleIDs []string) error {
	ctx = ensureContext(ctx)

	user, err := s.loadUser(ctx, id, false)
	if err != nil {
		return err
	}

	roles, err := s.loadRoles(ctx, roleIDs)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(user).Association("Roles").Replace(roles); err != nil {
		return fmt.Errorf("user service: assign roles: %w", err)
	}

	recordAudit(s.auditService, ctx, AuditEntry{
		UserID:   &actor.UserID,
		Action:   "user.assign_roles",
		Resource: user.ID,
		Result:   "success",
		Metadata: map[string]any{"role_ids": normaliseIDs(roleIDs)},
	})

	return nil
}

func (s *UserService) loadRoles(ctx context.Context, roleIDs []string) ([]models.Role, error) {
	ids := normaliseIDs(roleIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var roles []models.Role
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("user service: load roles: %w", err)
	}
	if len(roles) != len(ids) {
		return nil, ErrUnknownRole
	}
	return roles, nil
}

func (s *UserService) loadUser(ctx context.Context, id string, withRoles bool) (*models.User, error) {
	query := s.db.WithContext(ctx)
	if withRoles {
		query = query.Preload("Roles")
	}

	var user models.User
	err := query.First(&user, "id = ?", strings.TrimSpace(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}
