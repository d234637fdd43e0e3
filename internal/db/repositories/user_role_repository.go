package repositories

import (
	"context"

	"bsg-portal/registry/internal/constants"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// UserRoleRepository manages role set membership
type UserRoleRepository struct {
	db *gorm.DB
}

func NewUserRoleRepository(db *gorm.DB) *UserRoleRepository {
	return &UserRoleRepository{db: db}
}

func (r *UserRoleRepository) WithTx(tx *gorm.DB) *UserRoleRepository {
	return &UserRoleRepository{db: tx}
}

// Add grants a role; granting a role the user already holds returns ErrDuplicate.
func (r *UserRoleRepository) Add(ctx context.Context, userID string, role constants.Role) error {
	row := gormModels.UserRole{UserID: userID, Role: role}
	return classify("assign role", r.db.WithContext(ctx).Create(&row).Error)
}

func (r *UserRoleRepository) Remove(ctx context.Context, userID string, role constants.Role) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&gormModels.UserRole{})
	return affected("revoke role", res)
}

func (r *UserRoleRepository) DeleteAllFor(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.UserRole{}).Error
	return classify("delete roles", err)
}

func (r *UserRoleRepository) RolesOf(ctx context.Context, userID string) ([]constants.Role, error) {
	var roles []constants.Role
	err := r.db.WithContext(ctx).
		Model(&gormModels.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error
	if err != nil {
		return nil, classify("fetch roles", err)
	}
	return roles, nil
}

// RolesForUsers loads role sets for many users at once.
func (r *UserRoleRepository) RolesForUsers(ctx context.Context, userIDs []string) (map[string][]constants.Role, error) {
	out := make(map[string][]constants.Role, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []gormModels.UserRole
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, classify("load roles", err)
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Role)
	}
	return out, nil
}

// UsersWithRole lists user ids holding the role.
func (r *UserRoleRepository) UsersWithRole(ctx context.Context, role constants.Role) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&gormModels.UserRole{}).
		Where("role = ?", role).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, classify("list users by role", err)
	}
	return ids, nil
}
