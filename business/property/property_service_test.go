//go:build !integration

package property

import (
	"context"
	"errors"
	"testing"

	"dreamKeys/domain"
	"dreamKeys/internal/repository/memory"
)

var (
	admin = domain.Actor{UserID: 1, Email: "admin@example.com", Role: domain.RoleAdmin, Registered: true}
	agent = domain.Actor{UserID: 2, Email: "agent@example.com", Name: "Alice", Role: domain.RoleAgent, Registered: true}
	other = domain.Actor{UserID: 3, Email: "other@example.com", Role: domain.RoleAgent, Registered: true}
	buyer = domain.Actor{UserID: 4, Email: "buyer@example.com", Role: domain.RoleUser, Registered: true}
)

func newService() *propertyService {
	return NewPropertyService(memory.NewPropertyRepository())
}

func createListing(t *testing.T, s *propertyService) domain.Property {
	t.Helper()

	p, err := s.Create(context.Background(), agent, domain.Property{
		Title:    "Lake house",
		Location: "Lakeview",
		MinPrice: 400000,
		MaxPrice: 600000,
	})
	if err != nil {
		t.Fatalf("create property: %v", err)
	}
	return p
}

func TestCreateForcesInitialState(t *testing.T) {
	s := newService()
	ctx := context.Background()

	p, err := s.Create(ctx, agent, domain.Property{
		Title:              "Lake house",
		AgentEmail:         "spoof@example.com",
		VerificationStatus: domain.VerificationVerified,
		IsAdvertised:       true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.VerificationStatus != domain.VerificationPending || p.IsAdvertised {
		t.Fatalf("new property must be pending and unadvertised, got %s/%v", p.VerificationStatus, p.IsAdvertised)
	}
	if p.AgentEmail != agent.Email || p.AgentID != agent.UserID || p.AgentName != agent.Name {
		t.Fatalf("agent fields must come from the caller, got %+v", p)
	}
}

func TestCreateRejectsNonAgents(t *testing.T) {
	s := newService()
	ctx := context.Background()

	fraud := agent
	fraud.IsFraud = true

	tests := []struct {
		name  string
		actor domain.Actor
	}{
		{"buyer", buyer},
		{"unregistered", domain.Actor{Email: "ghost@example.com"}},
		{"fraudulent agent", fraud},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.actor, domain.Property{Title: "Lake house"})
			if !errors.Is(err, domain.ErrForbidden) {
				t.Fatalf("expected forbidden, got %v", err)
			}
		})
	}
}

func TestCreateValidatesInput(t *testing.T) {
	s := newService()
	ctx := context.Background()

	if _, err := s.Create(ctx, agent, domain.Property{Title: "  "}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty title, got %v", err)
	}
	if _, err := s.Create(ctx, agent, domain.Property{Title: "x", MinPrice: 10, MaxPrice: 5}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for inverted price range, got %v", err)
	}
}

func TestVerifyTransitions(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := createListing(t, s)

	if _, err := s.Verify(ctx, agent, p.ID, "verified"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("agent must not verify, got %v", err)
	}
	if _, err := s.Verify(ctx, admin, p.ID, "approved"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
	if _, err := s.Verify(ctx, admin, p.ID, "pending"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("pending is not a verification outcome, got %v", err)
	}

	got, err := s.Verify(ctx, admin, p.ID, "verified")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got.VerificationStatus != domain.VerificationVerified {
		t.Fatalf("expected verified, got %s", got.VerificationStatus)
	}

	if _, err := s.Verify(ctx, admin, p.ID, "verified"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("repeating the same status should report not found, got %v", err)
	}
	if _, err := s.Verify(ctx, admin, p.ID, "rejected"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("verified is final, got %v", err)
	}
	if _, err := s.Verify(ctx, admin, 999, "verified"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestNeverAdvertisedUnlessVerified(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := createListing(t, s)

	if _, err := s.Advertise(ctx, agent, p.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("pending property must not be advertised, got %v", err)
	}

	rejected := createListing(t, s)
	if _, err := s.Verify(ctx, admin, rejected.ID, "rejected"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := s.Advertise(ctx, admin, rejected.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("rejected property must not be advertised, got %v", err)
	}

	if _, err := s.Verify(ctx, admin, p.ID, "verified"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := s.Advertise(ctx, other, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("another agent must not advertise, got %v", err)
	}

	got, err := s.Advertise(ctx, agent, p.ID)
	if err != nil {
		t.Fatalf("advertise: %v", err)
	}
	if !got.IsAdvertised {
		t.Fatal("expected property to be advertised")
	}

	if _, err := s.Advertise(ctx, agent, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second advertise should report already advertised, got %v", err)
	}

	advertised, err := s.GetAdvertised(ctx)
	if err != nil {
		t.Fatalf("get advertised: %v", err)
	}
	if len(advertised) != 1 || advertised[0].ID != p.ID {
		t.Fatalf("expected only the verified listing to be advertised, got %+v", advertised)
	}
	for _, a := range advertised {
		if a.VerificationStatus != domain.VerificationVerified {
			t.Fatalf("advertised property %d is %s", a.ID, a.VerificationStatus)
		}
	}
}

func TestRemoveAdvertise(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := createListing(t, s)

	if _, err := s.RemoveAdvertise(ctx, agent, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not advertised, got %v", err)
	}

	if _, err := s.Verify(ctx, admin, p.ID, "verified"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := s.Advertise(ctx, agent, p.ID); err != nil {
		t.Fatalf("advertise: %v", err)
	}

	got, err := s.RemoveAdvertise(ctx, admin, p.ID)
	if err != nil {
		t.Fatalf("remove advertise: %v", err)
	}
	if got.IsAdvertised {
		t.Fatal("expected advertisement to be removed")
	}
}

func TestUpdateOnlyWhilePending(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := createListing(t, s)

	title := "Lake house with dock"
	got, err := s.Update(ctx, agent, p.ID, domain.PropertyChanges{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != title {
		t.Fatalf("expected title %q, got %q", title, got.Title)
	}

	if _, err := s.Update(ctx, other, p.ID, domain.PropertyChanges{Title: &title}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("another agent must not edit, got %v", err)
	}

	minPrice := 700000.0
	if _, err := s.Update(ctx, agent, p.ID, domain.PropertyChanges{MinPrice: &minPrice}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("min above max must be rejected, got %v", err)
	}

	if _, err := s.Verify(ctx, admin, p.ID, "verified"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if _, err := s.Update(ctx, agent, p.ID, domain.PropertyChanges{Title: &title}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("verified property must not be edited by its agent, got %v", err)
	}

	location := "North shore"
	got, err = s.Update(ctx, admin, p.ID, domain.PropertyChanges{Location: &location})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got.Location != location || got.VerificationStatus != domain.VerificationVerified {
		t.Fatalf("unexpected property after admin edit: %+v", got)
	}
}

func TestDeleteIsOwnerOrAdmin(t *testing.T) {
	s := newService()
	ctx := context.Background()
	p := createListing(t, s)

	if err := s.Delete(ctx, buyer, p.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := s.Delete(ctx, agent, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected property to be gone, got %v", err)
	}
}

func TestDeleteByAgent(t *testing.T) {
	s := newService()
	ctx := context.Background()
	createListing(t, s)
	createListing(t, s)

	if _, err := s.DeleteByAgent(ctx, other.UserID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for agent without listings, got %v", err)
	}

	deleted, err := s.DeleteByAgent(ctx, agent.UserID)
	if err != nil {
		t.Fatalf("delete by agent: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	// a replayed purge removes nothing and does not fail
	deleted, err = s.PurgeAgent(ctx, agent.UserID)
	if err != nil || deleted != 0 {
		t.Fatalf("expected idempotent purge, got %d, %v", deleted, err)
	}
}

func TestGetAllRejectsUnknownStatus(t *testing.T) {
	s := newService()

	if _, err := s.GetAll(context.Background(), domain.PropertyFilter{VerificationStatus: "approved"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}
