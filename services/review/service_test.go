package review

import (
	"context"
	"errors"
	"testing"

	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"
)

type memReviewRepo struct {
	reviews map[string]*models.Review
}

func newMemReviewRepo() *memReviewRepo {
	return &memReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *memReviewRepo) Upsert(_ context.Context, rev *models.Review) (bool, error) {
	for _, existing := range r.reviews {
		if existing.CustomerID == rev.CustomerID && existing.GarageID == rev.GarageID {
			existing.Rating = rev.Rating
			existing.Comment = rev.Comment
			*rev = *existing
			return false, nil
		}
	}
	cp := *rev
	r.reviews[rev.ID] = &cp
	return true, nil
}

func (r *memReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	rev, ok := r.reviews[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "review %s not found", id)
	}
	cp := *rev
	return &cp, nil
}

func (r *memReviewRepo) Update(_ context.Context, id string, rating int, comment string) error {
	rev, ok := r.reviews[id]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "review %s not found", id)
	}
	rev.Rating = rating
	rev.Comment = comment
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return apperr.Wrap(apperr.ErrNotFound, "review %s not found", id)
	}
	delete(r.reviews, id)
	return nil
}

func (r *memReviewRepo) ListByGarage(_ context.Context, garageID string) ([]models.Review, error) {
	var out []models.Review
	for _, rev := range r.reviews {
		if rev.GarageID == garageID {
			out = append(out, *rev)
		}
	}
	return out, nil
}

type memGarageRepo struct {
	garages map[string]*models.Garage
}

func (r *memGarageRepo) Create(_ context.Context, g *models.Garage) error {
	r.garages[g.ID] = g
	return nil
}

func (r *memGarageRepo) GetByID(_ context.Context, id string) (*models.Garage, error) {
	g, ok := r.garages[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "garage %s not found", id)
	}
	cp := *g
	return &cp, nil
}

func (r *memGarageRepo) GetByOwnerID(_ context.Context, ownerID string) (*models.Garage, error) {
	for _, g := range r.garages {
		if g.OwnerID == ownerID {
			cp := *g
			return &cp, nil
		}
	}
	return nil, apperr.Wrap(apperr.ErrNotFound, "no garage for owner %s", ownerID)
}

func (r *memGarageRepo) Update(_ context.Context, g *models.Garage) error {
	r.garages[g.ID] = g
	return nil
}

func (r *memGarageRepo) Nearby(_ context.Context, _ garageRepo.NearbyQuery) ([]models.Garage, error) {
	return nil, nil
}

func (r *memGarageRepo) SetRatingStats(_ context.Context, id string, rating float64, totalReviews int) error {
	g, ok := r.garages[id]
	if !ok {
		return apperr.Wrap(apperr.ErrNotFound, "garage %s not found", id)
	}
	g.Rating = rating
	g.TotalReviews = totalReviews
	return nil
}

// fakeRecords answers review eligibility checks.
type fakeRecords struct {
	completed map[string]bool // key: garageID + "|" + phone
}

func (f *fakeRecords) Create(context.Context, *models.ServiceRecord) error { return nil }
func (f *fakeRecords) GetByID(context.Context, string) (*models.ServiceRecord, error) {
	return nil, apperr.ErrNotFound
}
func (f *fakeRecords) MarkCodeVerified(context.Context, string) (bool, error) { return false, nil }
func (f *fakeRecords) MarkCompleted(context.Context, string, string, string, bool) (bool, error) {
	return false, nil
}
func (f *fakeRecords) MarkCancelled(context.Context, string) (bool, error) { return false, nil }
func (f *fakeRecords) ListByGarage(context.Context, string) ([]models.ServiceRecord, error) {
	return nil, nil
}
func (f *fakeRecords) ListByPhone(context.Context, string) ([]models.ServiceRecord, error) {
	return nil, nil
}
func (f *fakeRecords) HasCompleted(_ context.Context, garageID, phone string) (bool, error) {
	return f.completed[garageID+"|"+phone], nil
}

type fakeUsers struct {
	users map[string]*models.User
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "user %s not found", id)
	}
	return u, nil
}

func (f *fakeUsers) GetByAuthUID(context.Context, string, string) (*models.User, error) {
	return nil, apperr.ErrNotFound
}

func (f *fakeUsers) GetByPhoneAndRole(context.Context, string, string) (*models.User, error) {
	return nil, apperr.ErrNotFound
}

func (f *fakeUsers) Claim(context.Context, string, string) error { return nil }

func (f *fakeUsers) UpdateProfile(context.Context, string, string) error { return nil }

const (
	reviewGarageID   = "garage-1"
	reviewCustomerID = "cust-1"
	reviewPhone      = "+15550002222"
)

func newTestReviewService() (*DefaultReviewService, *memGarageRepo) {
	garages := &memGarageRepo{garages: map[string]*models.Garage{
		reviewGarageID: {ID: reviewGarageID, OwnerID: "owner-1", Name: "Apex Motors", Onboarded: true},
	}}
	svc := &DefaultReviewService{
		Reviews: newMemReviewRepo(),
		Garages: garages,
		Records: &fakeRecords{completed: map[string]bool{
			reviewGarageID + "|" + reviewPhone: true,
		}},
		Users: &fakeUsers{users: map[string]*models.User{
			reviewCustomerID: {ID: reviewCustomerID, Phone: reviewPhone, Role: models.RoleCustomer},
			"cust-2":         {ID: "cust-2", Phone: "+15550003333", Role: models.RoleCustomer},
		}},
	}
	return svc, garages
}

func TestCreateReviewUpdatesAggregate(t *testing.T) {
	svc, garages := newTestReviewService()
	ctx := context.Background()

	res, err := svc.Create(ctx, reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: 4, Comment: "solid work"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if !res.Created {
		t.Error("first review should report created")
	}

	g, _ := garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 4.0 || g.TotalReviews != 1 {
		t.Fatalf("aggregate = (%v, %d), want (4.0, 1)", g.Rating, g.TotalReviews)
	}

	// Second customer's five-star review moves the average to 4.5.
	svc.Records.(*fakeRecords).completed[reviewGarageID+"|+15550003333"] = true
	if _, err := svc.Create(ctx, "cust-2", ReviewInput{GarageID: reviewGarageID, Rating: 5}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	g, _ = garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 4.5 || g.TotalReviews != 2 {
		t.Fatalf("aggregate = (%v, %d), want (4.5, 2)", g.Rating, g.TotalReviews)
	}
}

func TestCreateReviewUpsertsExisting(t *testing.T) {
	svc, garages := newTestReviewService()
	ctx := context.Background()

	first, err := svc.Create(ctx, reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: 2})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	second, err := svc.Create(ctx, reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: 5, Comment: "they fixed it properly this time"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if second.Created {
		t.Error("repeat review should report created=false")
	}
	if second.Review.ID != first.Review.ID {
		t.Errorf("repeat review got a new id %s, want %s", second.Review.ID, first.Review.ID)
	}

	g, _ := garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 5.0 || g.TotalReviews != 1 {
		t.Fatalf("aggregate = (%v, %d), want (5.0, 1)", g.Rating, g.TotalReviews)
	}
}

func TestCreateReviewRequiresCompletedService(t *testing.T) {
	svc, _ := newTestReviewService()

	// cust-2 has no completed record with this garage.
	_, err := svc.Create(context.Background(), "cust-2", ReviewInput{GarageID: reviewGarageID, Rating: 5})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Create() error = %v, want ErrForbidden", err)
	}
}

func TestCreateReviewValidatesRating(t *testing.T) {
	svc, _ := newTestReviewService()
	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.Create(context.Background(), reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: rating})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Create(rating=%d) error = %v, want ErrValidation", rating, err)
		}
	}
}

func TestUpdateReviewAuthorOnly(t *testing.T) {
	svc, garages := newTestReviewService()
	ctx := context.Background()

	res, err := svc.Create(ctx, reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: 3})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if _, err := svc.Update(ctx, "cust-2", res.Review.ID, 5, ""); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Update() by non-author error = %v, want ErrForbidden", err)
	}

	updated, err := svc.Update(ctx, reviewCustomerID, res.Review.ID, 5, "better after the redo")
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if updated.Rating != 5 {
		t.Fatalf("rating = %d, want 5", updated.Rating)
	}
	g, _ := garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 5.0 {
		t.Fatalf("aggregate = %v, want 5.0 after update", g.Rating)
	}
}

func TestDeleteReviewSettlesAggregate(t *testing.T) {
	svc, garages := newTestReviewService()
	ctx := context.Background()

	res, err := svc.Create(ctx, reviewCustomerID, ReviewInput{GarageID: reviewGarageID, Rating: 4})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	if err := svc.Delete(ctx, "cust-2", res.Review.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Delete() by non-author error = %v, want ErrForbidden", err)
	}

	if err := svc.Delete(ctx, reviewCustomerID, res.Review.ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	g, _ := garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 0 || g.TotalReviews != 0 {
		t.Fatalf("aggregate = (%v, %d), want (0, 0) after delete", g.Rating, g.TotalReviews)
	}
}

func TestAggregateRoundsToOneDecimal(t *testing.T) {
	svc, garages := newTestReviewService()
	ctx := context.Background()
	records := svc.Records.(*fakeRecords)
	users := svc.Users.(*fakeUsers)

	ratings := []int{5, 4, 3} // average 4.0
	for i, rating := range ratings {
		id := "rater-" + string(rune('a'+i))
		phone := "+1555000" + string(rune('0'+i))
		users.users[id] = &models.User{ID: id, Phone: phone, Role: models.RoleCustomer}
		records.completed[reviewGarageID+"|"+phone] = true
		if _, err := svc.Create(ctx, id, ReviewInput{GarageID: reviewGarageID, Rating: rating}); err != nil {
			t.Fatalf("Create() error: %v", err)
		}
	}

	g, _ := garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 4.0 || g.TotalReviews != 3 {
		t.Fatalf("aggregate = (%v, %d), want (4.0, 3)", g.Rating, g.TotalReviews)
	}

	// 5, 4, 3, 5 averages 4.25, rounded to 4.3 at one decimal.
	users.users["rater-x"] = &models.User{ID: "rater-x", Phone: "+15550009999", Role: models.RoleCustomer}
	records.completed[reviewGarageID+"|+15550009999"] = true
	if _, err := svc.Create(ctx, "rater-x", ReviewInput{GarageID: reviewGarageID, Rating: 5}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	g, _ = garages.GetByID(ctx, reviewGarageID)
	if g.Rating != 4.3 {
		t.Fatalf("aggregate = %v, want 4.3", g.Rating)
	}
}

func TestCreateReviewUnknownGarage(t *testing.T) {
	svc, _ := newTestReviewService()
	_, err := svc.Create(context.Background(), reviewCustomerID, ReviewInput{GarageID: "no-such-garage", Rating: 4})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("Create() error = %v, want ErrNotFound", err)
	}
}
