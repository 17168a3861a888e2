package memory

import (
	"context"
	"sync"
	"time"

	"dreamKeys/domain"
)

type PropertyRepository struct {
	mu         sync.Mutex
	nextID     uint
	properties map[uint]domain.Property
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{properties: map[uint]domain.Property{}}
}

func (r *PropertyRepository) Create(_ context.Context, property *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	property.ID = r.nextID
	property.CreatedAt = time.Now()
	property.UpdatedAt = property.CreatedAt
	r.properties[property.ID] = *property
	return nil
}

func (r *PropertyRepository) FindByID(_ context.Context, id uint) (domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok {
		return domain.Property{}, domain.NewError(domain.ErrNotFound, "property not found")
	}
	return p, nil
}

func (r *PropertyRepository) FindByIDs(_ context.Context, ids []uint) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Property
	for _, id := range ids {
		if p, ok := r.properties[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PropertyRepository) FindAll(_ context.Context, filter domain.PropertyFilter) ([]domain.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []domain.Property{}
	for _, id := range sortedIDs(r.properties) {
		p := r.properties[id]
		if filter.AgentEmail != "" && p.AgentEmail != filter.AgentEmail {
			continue
		}
		if filter.VerificationStatus != "" && p.VerificationStatus != filter.VerificationStatus {
			continue
		}
		if filter.Advertised != nil && p.IsAdvertised != *filter.Advertised {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PropertyRepository) UpdateFields(_ context.Context, id uint, changes domain.PropertyChanges, requirePending bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok || (requirePending && p.VerificationStatus != domain.VerificationPending) {
		return 0, nil
	}

	if changes.Title != nil {
		p.Title = *changes.Title
	}
	if changes.Location != nil {
		p.Location = *changes.Location
	}
	if changes.ImageURL != nil {
		p.ImageURL = *changes.ImageURL
	}
	if changes.MinPrice != nil {
		p.MinPrice = *changes.MinPrice
	}
	if changes.MaxPrice != nil {
		p.MaxPrice = *changes.MaxPrice
	}
	if changes.Details != nil {
		p.Details = changes.Details
	}
	p.UpdatedAt = time.Now()
	r.properties[id] = p
	return 1, nil
}

func (r *PropertyRepository) UpdateVerification(_ context.Context, id uint, status domain.VerificationStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok || p.VerificationStatus != domain.VerificationPending {
		return 0, nil
	}
	p.VerificationStatus = status
	r.properties[id] = p
	return 1, nil
}

func (r *PropertyRepository) SetAdvertised(_ context.Context, id uint, advertised bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok || p.IsAdvertised == advertised {
		return 0, nil
	}
	if advertised && p.VerificationStatus != domain.VerificationVerified {
		return 0, nil
	}
	p.IsAdvertised = advertised
	r.properties[id] = p
	return 1, nil
}

func (r *PropertyRepository) Delete(_ context.Context, id uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.properties[id]; !ok {
		return 0, nil
	}
	delete(r.properties, id)
	return 1, nil
}

func (r *PropertyRepository) DeleteByAgent(_ context.Context, agentID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, p := range r.properties {
		if p.AgentID == agentID {
			delete(r.properties, id)
			deleted++
		}
	}
	return deleted, nil
}
