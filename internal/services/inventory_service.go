package services

import (
	"context"
	"errors"
	"strings"

	"bsg-portal/registry/internal/apperr"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db/repositories"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"
	gormModels "bsg-portal/registry/internal/models/gorm"

	"gorm.io/gorm"
)

// InventoryService keeps available stock and active assignments in step:
// for every resource, available + sum(active quantities) == total.
type InventoryService struct {
	db        *gorm.DB
	inventory *repositories.InventoryRepository
	profiles  *repositories.ProfileRepository
	metrics   *metrics.MetricsRegistry
	clock     Clock
}

func NewInventoryService(db *gorm.DB, metricsReg *metrics.MetricsRegistry, clock Clock) *InventoryService {
	return &InventoryService{
		db:        db,
		inventory: repositories.NewInventoryRepository(db),
		profiles:  repositories.NewProfileRepository(db),
		metrics:   metricsReg,
		clock:     clock,
	}
}

func (s *InventoryService) CreateResource(ctx context.Context, caller auth.Caller, req dtos.CreateResourceRequest) (*dtos.ResourceView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	req.Unit = strings.TrimSpace(req.Unit)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.Unit == "" {
		req.Unit = "pcs"
	}

	res := gormModels.Resource{
		Name:              req.Name,
		Category:          req.Category,
		TotalQuantity:     req.TotalQuantity,
		AvailableQuantity: req.TotalQuantity,
		Unit:              req.Unit,
	}
	if err := s.inventory.CreateResource(ctx, &res); err != nil {
		return nil, apperr.Backend("create resource", err)
	}
	logging.Info("Resource created", "resource_id", res.ID, "name", res.Name, "total", res.TotalQuantity)
	v := toResourceView(&res)
	return &v, nil
}

// ListResources is readable by any member.
func (s *InventoryService) ListResources(ctx context.Context, caller auth.Caller) ([]dtos.ResourceView, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	resources, err := readWithRetry(ctx, func() ([]gormModels.Resource, error) {
		r, err := s.inventory.ListResources(ctx)
		return r, apperr.Backend("list resources", err)
	})
	if err != nil {
		return nil, err
	}
	out := make([]dtos.ResourceView, len(resources))
	for i := range resources {
		out[i] = toResourceView(&resources[i])
	}
	return out, nil
}

// Assign hands qty units of a resource to a member. The stock decrement and
// the assignment row commit together or not at all.
func (s *InventoryService) Assign(ctx context.Context, caller auth.Caller, req dtos.AssignResourceRequest) (*dtos.AssignmentView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var resource *gormModels.Resource
	assignment := gormModels.ResourceAssignment{
		ResourceID: req.ResourceID,
		UserID:     req.UserID,
		Quantity:   req.Quantity,
		AssignedAt: s.clock.now(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.inventory.WithTx(tx)
		if _, err := s.profiles.WithTx(tx).GetByUserID(ctx, req.UserID); err != nil {
			return notFoundOr(err, apperr.NotFound("member not found"), "fetch member")
		}
		taken, err := repo.TakeStock(ctx, req.ResourceID, req.Quantity)
		if err != nil {
			return apperr.Backend("take stock", err)
		}
		current, err := repo.GetResource(ctx, req.ResourceID)
		if err != nil {
			return notFoundOr(err, apperr.NotFoundCode(apperr.CodeResourceNotFound, "resource not found"), "fetch resource")
		}
		if !taken {
			return apperr.InsufficientStock(req.Quantity, current.AvailableQuantity)
		}
		resource = current
		return apperr.Backend("create assignment", repo.CreateAssignment(ctx, &assignment))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StockMovementsTotal.WithLabelValues("out").Add(float64(req.Quantity))
	logging.Info("Resource assigned",
		"resource_id", req.ResourceID,
		"user_id", req.UserID,
		"quantity", req.Quantity,
		"available", resource.AvailableQuantity,
		"by", caller.UserID,
	)
	profiles, err := s.profiles.MapByUserIDs(ctx, []string{req.UserID})
	if err != nil {
		logging.Warn("Failed to load member for assignment view", "user_id", req.UserID, "error", err)
	}
	v := toAssignmentView(&assignment, map[string]gormModels.Resource{resource.ID: *resource}, profiles)
	return &v, nil
}

// ReturnAssignment closes an active assignment and puts its quantity back.
func (s *InventoryService) ReturnAssignment(ctx context.Context, caller auth.Caller, assignmentID string) error {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return err
	}
	notFound := apperr.NotFoundCode(apperr.CodeAssignmentNotFound, "assignment not found or already returned")

	var qty int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.inventory.WithTx(tx)
		a, err := repo.GetAssignment(ctx, assignmentID)
		if err != nil {
			return notFoundOr(err, notFound, "fetch assignment")
		}
		closed, err := repo.MarkReturned(ctx, assignmentID, s.clock.now())
		if err != nil {
			return apperr.Backend("mark assignment returned", err)
		}
		if !closed {
			return notFound
		}
		restored, err := repo.PutStock(ctx, a.ResourceID, a.Quantity)
		if err != nil {
			return apperr.Backend("return stock", err)
		}
		if !restored {
			// Stock would exceed total; the counters are out of step.
			return apperr.Backend("return stock", errors.New("available quantity would exceed total for resource "+a.ResourceID))
		}
		qty = a.Quantity
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.StockMovementsTotal.WithLabelValues("in").Add(float64(qty))
	logging.Info("Resource returned", "assignment_id", assignmentID, "quantity", qty, "by", caller.UserID)
	return nil
}

func (s *InventoryService) ListActiveAssignments(ctx context.Context, caller auth.Caller) ([]dtos.AssignmentView, error) {
	if err := requireAdminOrCoordinator(caller); err != nil {
		return nil, err
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.ResourceAssignment, error) {
		r, err := s.inventory.ListActive(ctx)
		return r, apperr.Backend("list assignments", err)
	})
	if err != nil {
		return nil, err
	}
	return s.toAssignmentViews(ctx, rows)
}

// ListAssignmentsForMember includes returned assignments.
func (s *InventoryService) ListAssignmentsForMember(ctx context.Context, caller auth.Caller, userID string) ([]dtos.AssignmentView, error) {
	if err := requireSelfOrAdminOrCoordinator(caller, userID); err != nil {
		return nil, err
	}
	rows, err := readWithRetry(ctx, func() ([]gormModels.ResourceAssignment, error) {
		r, err := s.inventory.ListForUser(ctx, userID)
		return r, apperr.Backend("list assignments", err)
	})
	if err != nil {
		return nil, err
	}
	return s.toAssignmentViews(ctx, rows)
}

func (s *InventoryService) toAssignmentViews(ctx context.Context, rows []gormModels.ResourceAssignment) ([]dtos.AssignmentView, error) {
	resources, err := s.inventory.MapResources(ctx, uniqueUserIDs(rows, func(a gormModels.ResourceAssignment) string { return a.ResourceID }))
	if err != nil {
		return nil, apperr.Backend("load resources", err)
	}
	profiles, err := s.profiles.MapByUserIDs(ctx, uniqueUserIDs(rows, func(a gormModels.ResourceAssignment) string { return a.UserID }))
	if err != nil {
		return nil, apperr.Backend("load members", err)
	}
	out := make([]dtos.AssignmentView, len(rows))
	for i := range rows {
		out[i] = toAssignmentView(&rows[i], resources, profiles)
	}
	return out, nil
}

func toResourceView(r *gormModels.Resource) dtos.ResourceView {
	return dtos.ResourceView{
		ID:                r.ID,
		Name:              r.Name,
		Category:          r.Category,
		TotalQuantity:     r.TotalQuantity,
		AvailableQuantity: r.AvailableQuantity,
		Unit:              r.Unit,
		CreatedAt:         r.CreatedAt,
	}
}

func toAssignmentView(a *gormModels.ResourceAssignment, resources map[string]gormModels.Resource, profiles map[string]gormModels.Profile) dtos.AssignmentView {
	who := identityOf(profiles, a.UserID)
	v := dtos.AssignmentView{
		ID:           a.ID,
		ResourceID:   a.ResourceID,
		ResourceName: constants.MsgUnknownResource,
		UserID:       a.UserID,
		MemberName:   who.Name,
		MemberUID:    who.UID,
		Quantity:     a.Quantity,
		AssignedAt:   a.AssignedAt,
		ReturnedAt:   a.ReturnedAt,
	}
	if r, ok := resources[a.ResourceID]; ok {
		v.ResourceName = r.Name
		v.ResourceUnit = r.Unit
	}
	return v
}
