package property

import (
	"context"
	"strings"

	"dreamKeys/domain"
	"dreamKeys/pkg/logger"
	"dreamKeys/pkg/metrics"
)

// PropertyRepository contract interface
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	FindByID(ctx context.Context, id uint) (domain.Property, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.Property, error)
	FindAll(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error)
	// UpdateFields applies changes; with requirePending it only matches pending listings.
	UpdateFields(ctx context.Context, id uint, changes domain.PropertyChanges, requirePending bool) (int64, error)
	// UpdateVerification only matches pending listings.
	UpdateVerification(ctx context.Context, id uint, status domain.VerificationStatus) (int64, error)
	// SetAdvertised(true) only matches verified, unadvertised listings; SetAdvertised(false) only advertised ones.
	SetAdvertised(ctx context.Context, id uint, advertised bool) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	DeleteByAgent(ctx context.Context, agentID uint) (int64, error)
}

type propertyService struct {
	propertyRepo PropertyRepository
}

func NewPropertyService(propertyRepo PropertyRepository) *propertyService {
	return &propertyService{
		propertyRepo: propertyRepo,
	}
}

func (s *propertyService) Create(ctx context.Context, actor domain.Actor, property domain.Property) (domain.Property, error) {
	if !actor.Registered {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "register before listing a property")
	}
	if actor.IsFraud {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "account is flagged as fraudulent")
	}
	if !actor.IsAgent() && !actor.IsAdmin() {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "only agents can list properties")
	}

	property.Title = strings.TrimSpace(property.Title)
	if property.Title == "" {
		return domain.Property{}, domain.NewError(domain.ErrInvalidArgument, "title is required")
	}
	if err := checkPriceRange(property.MinPrice, property.MaxPrice); err != nil {
		return domain.Property{}, err
	}

	property.ID = 0
	property.AgentID = actor.UserID
	property.AgentEmail = actor.Email
	property.AgentName = actor.Name
	property.VerificationStatus = domain.VerificationPending
	property.IsAdvertised = false

	if err := s.propertyRepo.Create(ctx, &property); err != nil {
		logger.Error("Failed to create property", err)
		return domain.Property{}, err
	}

	metrics.PropertyTransitions.WithLabelValues("create").Inc()
	logger.Info("Property created", "property_id", property.ID, "agent_email", property.AgentEmail)
	return property, nil
}

func (s *propertyService) GetByID(ctx context.Context, id uint) (domain.Property, error) {
	return s.propertyRepo.FindByID(ctx, id)
}

func (s *propertyService) GetAll(ctx context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	if filter.VerificationStatus != "" && !filter.VerificationStatus.Valid() {
		return nil, domain.NewError(domain.ErrInvalidArgument, "invalid verification status")
	}

	properties, err := s.propertyRepo.FindAll(ctx, filter)
	if err != nil {
		logger.Error("Failed to get properties", err)
		return nil, err
	}

	return properties, nil
}

// GetAdvertised lists the homepage carousel.
func (s *propertyService) GetAdvertised(ctx context.Context) ([]domain.Property, error) {
	advertised := true
	return s.GetAll(ctx, domain.PropertyFilter{
		VerificationStatus: domain.VerificationVerified,
		Advertised:         &advertised,
	})
}

// Update lets the owning agent edit a listing while it is pending. Admins may edit at any time.
func (s *propertyService) Update(ctx context.Context, actor domain.Actor, id uint, changes domain.PropertyChanges) (domain.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if !actor.CanManage(property.AgentEmail) {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "you do not own this property")
	}

	requirePending := !actor.IsAdmin()
	if requirePending && property.VerificationStatus != domain.VerificationPending {
		return domain.Property{}, domain.NewError(domain.ErrConflict, "only pending properties can be edited")
	}

	if changes.Title != nil && strings.TrimSpace(*changes.Title) == "" {
		return domain.Property{}, domain.NewError(domain.ErrInvalidArgument, "title cannot be empty")
	}

	minPrice, maxPrice := property.MinPrice, property.MaxPrice
	if changes.MinPrice != nil {
		minPrice = *changes.MinPrice
	}
	if changes.MaxPrice != nil {
		maxPrice = *changes.MaxPrice
	}
	if err := checkPriceRange(minPrice, maxPrice); err != nil {
		return domain.Property{}, err
	}

	rows, err := s.propertyRepo.UpdateFields(ctx, id, changes, requirePending)
	if err != nil {
		logger.Error("Failed to update property", err)
		return domain.Property{}, err
	}
	if rows == 0 {
		return domain.Property{}, domain.NewError(domain.ErrConflict, "only pending properties can be edited")
	}

	return s.propertyRepo.FindByID(ctx, id)
}

// Verify moves a pending listing to verified or rejected. Both outcomes are final.
func (s *propertyService) Verify(ctx context.Context, actor domain.Actor, id uint, status string) (domain.Property, error) {
	if !actor.IsAdmin() {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "admin access required")
	}

	target := domain.VerificationStatus(status)
	if target != domain.VerificationVerified && target != domain.VerificationRejected {
		return domain.Property{}, domain.NewError(domain.ErrInvalidArgument, "status must be verified or rejected")
	}

	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if property.VerificationStatus == target {
		return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found or already updated")
	}
	if property.VerificationStatus != domain.VerificationPending {
		return domain.Property{}, domain.NewError(domain.ErrConflict, "property is already "+string(property.VerificationStatus))
	}

	rows, err := s.propertyRepo.UpdateVerification(ctx, id, target)
	if err != nil {
		logger.Error("Failed to update verification status", err)
		return domain.Property{}, err
	}
	if rows == 0 {
		return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found or already updated")
	}

	metrics.PropertyTransitions.WithLabelValues(string(target)).Inc()
	logger.Info("Property verification updated", "property_id", id, "status", target)

	property.VerificationStatus = target
	return property, nil
}

func (s *propertyService) Advertise(ctx context.Context, actor domain.Actor, id uint) (domain.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if !actor.CanManage(property.AgentEmail) {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "you do not own this property")
	}
	if property.VerificationStatus != domain.VerificationVerified {
		return domain.Property{}, domain.NewError(domain.ErrConflict, "only verified properties can be advertised")
	}

	rows, err := s.propertyRepo.SetAdvertised(ctx, id, true)
	if err != nil {
		logger.Error("Failed to advertise property", err)
		return domain.Property{}, err
	}
	if rows == 0 {
		return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found or already advertised")
	}

	metrics.PropertyTransitions.WithLabelValues("advertise").Inc()
	property.IsAdvertised = true
	return property, nil
}

func (s *propertyService) RemoveAdvertise(ctx context.Context, actor domain.Actor, id uint) (domain.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if !actor.CanManage(property.AgentEmail) {
		return domain.Property{}, domain.NewError(domain.ErrForbidden, "you do not own this property")
	}

	rows, err := s.propertyRepo.SetAdvertised(ctx, id, false)
	if err != nil {
		logger.Error("Failed to remove property advertisement", err)
		return domain.Property{}, err
	}
	if rows == 0 {
		return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found or not advertised")
	}

	metrics.PropertyTransitions.WithLabelValues("unadvertise").Inc()
	property.IsAdvertised = false
	return property, nil
}

func (s *propertyService) Delete(ctx context.Context, actor domain.Actor, id uint) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanManage(property.AgentEmail) {
		return domain.NewError(domain.ErrForbidden, "you do not own this property")
	}

	rows, err := s.propertyRepo.Delete(ctx, id)
	if err != nil {
		logger.Error("Failed to delete property", err)
		return err
	}
	if rows == 0 {
		return domain.NewError(domain.ErrNotFound, "property not found")
	}

	metrics.PropertyTransitions.WithLabelValues("delete").Inc()
	return nil
}

// DeleteByAgent is the admin purge endpoint. It fails when the agent owns nothing.
func (s *propertyService) DeleteByAgent(ctx context.Context, agentID uint) (int64, error) {
	deleted, err := s.PurgeAgent(ctx, agentID)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, domain.NewError(domain.ErrNotFound, "no properties found for the given agent")
	}

	return deleted, nil
}

// PurgeAgent removes every listing owned by the agent. Running it twice is harmless.
func (s *propertyService) PurgeAgent(ctx context.Context, agentID uint) (int64, error) {
	deleted, err := s.propertyRepo.DeleteByAgent(ctx, agentID)
	if err != nil {
		logger.Error("Failed to purge agent properties", "agent_id", agentID, "error", err)
		return 0, err
	}

	metrics.PurgedProperties.Add(float64(deleted))
	logger.Info("Agent properties purged", "agent_id", agentID, "deleted", deleted)
	return deleted, nil
}

func checkPriceRange(minPrice, maxPrice float64) error {
	if minPrice < 0 || maxPrice < 0 {
		return domain.NewError(domain.ErrInvalidArgument, "prices cannot be negative")
	}
	if maxPrice > 0 && minPrice > maxPrice {
		return domain.NewError(domain.ErrInvalidArgument, "minimum price cannot exceed maximum price")
	}

	return nil
}
