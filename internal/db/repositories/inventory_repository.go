package repositories

import (
	"context"
	"time"

	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InventoryRepository keeps resource stock and assignments. Stock changes are
// guarded single-statement updates; callers pair them with the assignment
// write inside one transaction.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) WithTx(tx *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: tx}
}

func (r *InventoryRepository) CreateResource(ctx context.Context, res *gormModels.Resource) error {
	return classify("create resource", r.db.WithContext(ctx).Create(res).Error)
}

func (r *InventoryRepository) GetResource(ctx context.Context, id string) (*gormModels.Resource, error) {
	var res gormModels.Resource
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&res).Error; err != nil {
		return nil, classify("fetch resource", err)
	}
	return &res, nil
}

// ListResources orders by category, then name.
func (r *InventoryRepository) ListResources(ctx context.Context) ([]gormModels.Resource, error) {
	var resources []gormModels.Resource
	err := r.db.WithContext(ctx).
		Order("category ASC").
		Order("name ASC").
		Find(&resources).Error
	if err != nil {
		return nil, classify("list resources", err)
	}
	return resources, nil
}

func (r *InventoryRepository) MapResources(ctx context.Context, ids []string) (map[string]gormModels.Resource, error) {
	out := make(map[string]gormModels.Resource, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var resources []gormModels.Resource
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&resources).Error; err != nil {
		return nil, classify("load resources", err)
	}
	for _, res := range resources {
		out[res.ID] = res
	}
	return out, nil
}

// TakeStock decrements available stock only when at least qty is available.
// It reports false when the guard did not match.
func (r *InventoryRepository) TakeStock(ctx context.Context, resourceID string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Resource{}).
		Where("id = ? AND available_quantity >= ?", resourceID, qty).
		Update("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, classify("take stock", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// PutStock increments available stock only while it stays within total.
func (r *InventoryRepository) PutStock(ctx context.Context, resourceID string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.Resource{}).
		Where("id = ? AND available_quantity + ? <= total_quantity", resourceID, qty).
		Update("available_quantity", gorm.Expr("available_quantity + ?", qty))
	if res.Error != nil {
		return false, classify("return stock", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *InventoryRepository) CreateAssignment(ctx context.Context, a *gormModels.ResourceAssignment) error {
	return classify("create assignment", r.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (r *InventoryRepository) GetAssignment(ctx context.Context, id string) (*gormModels.ResourceAssignment, error) {
	var a gormModels.ResourceAssignment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, classify("fetch assignment", err)
	}
	return &a, nil
}

// MarkReturned closes an active assignment. It reports false when the
// assignment is missing or was already returned.
func (r *InventoryRepository) MarkReturned(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&gormModels.ResourceAssignment{}).
		Where("id = ? AND returned_at IS NULL", id).
		Update("returned_at", at)
	if res.Error != nil {
		return false, classify("mark assignment returned", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ListActive returns unreturned assignments, newest first.
func (r *InventoryRepository) ListActive(ctx context.Context) ([]gormModels.ResourceAssignment, error) {
	return r.listAssignments(ctx, r.db.Where("returned_at IS NULL"))
}

// ListForUser returns all of a member's assignments, newest first.
func (r *InventoryRepository) ListForUser(ctx context.Context, userID string) ([]gormModels.ResourceAssignment, error) {
	return r.listAssignments(ctx, r.db.Where("user_id = ?", userID))
}

func (r *InventoryRepository) listAssignments(ctx context.Context, q *gorm.DB) ([]gormModels.ResourceAssignment, error) {
	var out []gormModels.ResourceAssignment
	if err := q.WithContext(ctx).Order("assigned_at DESC").Find(&out).Error; err != nil {
		return nil, classify("list assignments", err)
	}
	return out, nil
}

// ActiveQuantity sums quantities of unreturned assignments for a resource.
func (r *InventoryRepository) ActiveQuantity(ctx context.Context, resourceID string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).
		Model(&gormModels.ResourceAssignment{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("resource_id = ? AND returned_at IS NULL", resourceID).
		Scan(&total).Error
	if err != nil {
		return 0, classify("sum active assignments", err)
	}
	return total, nil
}

func (r *InventoryRepository) CountActiveForUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.ResourceAssignment{}).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, classify("count active assignments", err)
	}
	return n, nil
}

func (r *InventoryRepository) DeleteAssignmentsForUser(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&gormModels.ResourceAssignment{}).Error
	return classify("delete member assignments", err)
}
