package record

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"garagelink/config"
	garageRepo "garagelink/database/repository/garage"
	"garagelink/models"
	"garagelink/services/apperr"
	"garagelink/services/identity"
)

// memRecordRepo is an in-memory ServiceRecordRepository with the same
// status-conditioned transition semantics as the Mongo implementation.
type memRecordRepo struct {
	mu      sync.Mutex
	records map[string]*models.ServiceRecord

	// staleStatus, when set, is reported by GetByID instead of the stored
	// status. It simulates a reader racing a concurrent transition.
	staleStatus string
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{records: make(map[string]*models.ServiceRecord)}
}

func (r *memRecordRepo) Create(_ context.Context, rec *models.ServiceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.records[rec.ID] = &cp
	return nil
}

func (r *memRecordRepo) GetByID(_ context.Context, id string) (*models.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok {
		return nil, apperr.Wrap(apperr.ErrNotFound, "service record %s not found", id)
	}
	cp := *rec
	if r.staleStatus != "" {
		cp.Status = r.staleStatus
	}
	return &cp, nil
}

func (r *memRecordRepo) MarkCodeVerified(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Status != models.RecordStatusAwaitingCode {
		return false, nil
	}
	rec.Status = models.RecordStatusCodeVerified
	rec.OTP = ""
	rec.OTPExpiry = nil
	return true, nil
}

func (r *memRecordRepo) MarkCompleted(_ context.Context, id, paymentMethod, paymentRef string, isReliable bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Status != models.RecordStatusCodeVerified {
		return false, nil
	}
	rec.Status = models.RecordStatusCompleted
	rec.PaymentMethod = paymentMethod
	rec.PaymentRef = paymentRef
	rec.IsReliable = isReliable
	return true, nil
}

func (r *memRecordRepo) MarkCancelled(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[id]
	if !ok || rec.Status == models.RecordStatusCompleted || rec.Status == models.RecordStatusCancelled {
		return false, nil
	}
	rec.Status = models.RecordStatusCancelled
	rec.OTP = ""
	rec.OTPExpiry = nil
	return true, nil
}

func (r *memRecordRepo) ListByGarage(_ context.Context, garageID string) ([]models.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRecord
	for _, rec := range r.records {
		if rec.GarageID == garageID {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) ListByPhone(_ context.Context, phone string) ([]models.ServiceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ServiceRecord
	for _, rec := range r.records {
		if rec.CustomerPhone == phone {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (r *memRecordRepo) HasCompleted(_ context.Context, garageID, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.records {
		if rec.GarageID == garageID && rec.CustomerPhone == phone && rec.Status == models.RecordStatusCompleted {
			return true, nil
		}
	}
	return false, nil
}

// memGarageRepo holds garages keyed by id.
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

// fakeIdentity implements identity.IdentityService and records
// shadow-customer requests.
type fakeIdentity struct {
	shadowCreated bool
	shadowErr     error
	calls         []string
}

func (f *fakeIdentity) Bridge(context.Context, string, string) (*identity.BridgeResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentity) EnsureShadowCustomer(_ context.Context, phone string) (bool, error) {
	f.calls = append(f.calls, phone)
	if f.shadowErr != nil {
		return false, f.shadowErr
	}
	return f.shadowCreated, nil
}

func (f *fakeIdentity) GetUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentity) UpdateProfile(context.Context, string, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

// fakeNotifier captures sends without touching redis.
type fakeNotifier struct {
	configured bool
	fail       bool
	sent       []string
}

func (f *fakeNotifier) IsConfigured() bool { return f.configured }

func (f *fakeNotifier) Send(_ context.Context, phone, template string, _ map[string]string) error {
	if f.fail {
		return errors.New("delivery channel down")
	}
	f.sent = append(f.sent, template+":"+phone)
	return nil
}

const (
	testOwnerID  = "owner-1"
	testGarageID = "garage-1"
	testPhone    = "+15550001111"
)

func newTestEngine() (*DefaultServiceRecordService, *memRecordRepo, *fakeIdentity, *fakeNotifier) {
	records := newMemRecordRepo()
	garages := &memGarageRepo{garages: map[string]*models.Garage{
		testGarageID: {ID: testGarageID, OwnerID: testOwnerID, Name: "Apex Motors", Onboarded: true},
		"garage-2":   {ID: "garage-2", OwnerID: "owner-2", Name: "Other Shop", Onboarded: true},
	}}
	ident := &fakeIdentity{shadowCreated: true}
	notifier := &fakeNotifier{configured: true}
	svc := &DefaultServiceRecordService{
		Repo:     records,
		Garages:  garages,
		Identity: ident,
		Notifier: notifier,
		Fees:     FeePolicy{Fee: 1.90, Minimum: 2.0, Mode: config.FeeModeAdditive},
		OTPTTL:   10 * time.Minute,
		EchoOTP:  true,
	}
	return svc, records, ident, notifier
}

func initiateTestRecord(t *testing.T, svc *DefaultServiceRecordService) (string, string) {
	t.Helper()
	res, err := svc.Initiate(context.Background(), testOwnerID, InitiateInput{
		CustomerPhone: testPhone,
		Description:   "brake pad replacement",
		Amount:        120,
	})
	if err != nil {
		t.Fatalf("Initiate() error: %v", err)
	}
	if res.DevOTP == "" {
		t.Fatal("Initiate() returned no echoed code in test configuration")
	}
	return res.ServiceID, res.DevOTP
}

func TestLifecycleHappyPath(t *testing.T) {
	svc, records, ident, notifier := newTestEngine()
	ctx := context.Background()

	id, code := initiateTestRecord(t, svc)

	rec, err := records.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID() error: %v", err)
	}
	if rec.Status != models.RecordStatusAwaitingCode {
		t.Fatalf("status = %q, want %q", rec.Status, models.RecordStatusAwaitingCode)
	}
	if rec.PlatformFee != 1.90 || rec.GarageEarnings != 120 {
		t.Fatalf("fee split = (%v, %v), want (1.90, 120)", rec.PlatformFee, rec.GarageEarnings)
	}

	fees, err := svc.VerifyCode(ctx, testOwnerID, id, code)
	if err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}
	if fees.Amount != 120 || fees.PlatformFee != 1.90 || fees.GarageEarnings != 120 {
		t.Fatalf("fee breakdown = %+v, unexpected", fees)
	}

	rec, _ = records.GetByID(ctx, id)
	if rec.Status != models.RecordStatusCodeVerified {
		t.Fatalf("status = %q, want %q", rec.Status, models.RecordStatusCodeVerified)
	}
	if rec.OTP != "" || rec.OTPExpiry != nil {
		t.Fatal("one-time code not cleared after verification")
	}

	result, err := svc.Complete(ctx, testOwnerID, id, CompleteInput{
		PaymentMethod: models.PaymentMethodOnline,
		PaymentRef:    "txn-789",
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if result.Record.Status != models.RecordStatusCompleted {
		t.Fatalf("status = %q, want %q", result.Record.Status, models.RecordStatusCompleted)
	}
	if !result.Record.IsReliable {
		t.Error("online payment should be marked reliable")
	}
	if !result.NotificationSent {
		t.Error("invoice notification should have been handed off")
	}
	if !result.CustomerLinked {
		t.Error("shadow customer should have been created")
	}
	if len(ident.calls) != 1 || ident.calls[0] != testPhone {
		t.Errorf("EnsureShadowCustomer calls = %v, want one for %s", ident.calls, testPhone)
	}
	if len(notifier.sent) != 2 {
		t.Errorf("sent %d notifications, want 2 (code + invoice)", len(notifier.sent))
	}
}

func TestInitiateRejectsAmountBelowMinimum(t *testing.T) {
	svc, records, _, _ := newTestEngine()

	_, err := svc.Initiate(context.Background(), testOwnerID, InitiateInput{
		CustomerPhone: testPhone,
		Description:   "tire check",
		Amount:        1.50,
	})
	if !errors.Is(err, apperr.ErrInvalidAmount) {
		t.Fatalf("Initiate() error = %v, want ErrInvalidAmount", err)
	}
	if len(records.records) != 0 {
		t.Fatal("rejected initiation must not persist a record")
	}
}

func TestInitiateRequiresGarageProfile(t *testing.T) {
	svc, _, _, _ := newTestEngine()

	_, err := svc.Initiate(context.Background(), "owner-without-garage", InitiateInput{
		CustomerPhone: testPhone,
		Description:   "oil change",
		Amount:        30,
	})
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("Initiate() error = %v, want ErrForbidden", err)
	}
}

func TestInitiateSurvivesNotificationFailure(t *testing.T) {
	svc, records, _, notifier := newTestEngine()
	notifier.fail = true

	res, err := svc.Initiate(context.Background(), testOwnerID, InitiateInput{
		CustomerPhone: testPhone,
		Description:   "battery swap",
		Amount:        80,
	})
	if err != nil {
		t.Fatalf("Initiate() error: %v", err)
	}
	if res.OTPSent {
		t.Error("otpSent should be false when delivery fails")
	}
	if _, err := records.GetByID(context.Background(), res.ServiceID); err != nil {
		t.Fatalf("record must exist despite delivery failure: %v", err)
	}
}

func TestVerifyCodeWrongThenRight(t *testing.T) {
	svc, records, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	_, err := svc.VerifyCode(ctx, testOwnerID, id, wrong)
	if !errors.Is(err, apperr.ErrCodeMismatch) {
		t.Fatalf("VerifyCode(wrong) error = %v, want ErrCodeMismatch", err)
	}

	rec, _ := records.GetByID(ctx, id)
	if rec.Status != models.RecordStatusAwaitingCode {
		t.Fatalf("a failed attempt must not transition the record, status = %q", rec.Status)
	}

	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode(correct) error: %v", err)
	}
}

func TestVerifyCodeExpired(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)

	// Jump past the TTL.
	svc.Now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, err := svc.VerifyCode(ctx, testOwnerID, id, code)
	if !errors.Is(err, apperr.ErrExpired) {
		t.Fatalf("VerifyCode() error = %v, want ErrExpired", err)
	}
}

func TestVerifyCodeReplayRejected(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)

	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}
	_, err := svc.VerifyCode(ctx, testOwnerID, id, code)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("replayed VerifyCode() error = %v, want ErrInvalidState", err)
	}
}

func TestVerifyCodeConcurrentLoser(t *testing.T) {
	svc, records, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)

	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}

	// The loser of a race reads a stale awaiting-code snapshot; the
	// status-conditioned write must still refuse it.
	records.staleStatus = models.RecordStatusAwaitingCode
	expiry := time.Now().Add(time.Minute)
	records.records[id].OTP = code
	records.records[id].OTPExpiry = &expiry

	_, err := svc.VerifyCode(ctx, testOwnerID, id, code)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("racing VerifyCode() error = %v, want ErrInvalidState", err)
	}
}

func TestVerifyCodeForbiddenForOtherGarage(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	id, code := initiateTestRecord(t, svc)

	_, err := svc.VerifyCode(context.Background(), "owner-2", id, code)
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("VerifyCode() error = %v, want ErrForbidden", err)
	}
}

func TestCompleteRequiresVerifiedStatus(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	id, _ := initiateTestRecord(t, svc)

	_, err := svc.Complete(context.Background(), testOwnerID, id, CompleteInput{
		PaymentMethod: models.PaymentMethodCash,
	})
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("Complete() error = %v, want ErrInvalidState", err)
	}
}

func TestCompleteCashIsUnreliable(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)
	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}

	result, err := svc.Complete(ctx, testOwnerID, id, CompleteInput{
		PaymentMethod: models.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if result.Record.IsReliable {
		t.Error("cash payment must not be marked reliable")
	}
}

func TestCompleteOnlineRequiresRef(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)
	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}

	_, err := svc.Complete(ctx, testOwnerID, id, CompleteInput{
		PaymentMethod: models.PaymentMethodOnline,
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("Complete() error = %v, want ErrValidation", err)
	}
}

func TestCompleteSurvivesShadowCustomerFailure(t *testing.T) {
	svc, _, ident, _ := newTestEngine()
	ident.shadowErr = errors.New("user store unavailable")
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)
	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}

	result, err := svc.Complete(ctx, testOwnerID, id, CompleteInput{
		PaymentMethod: models.PaymentMethodCash,
	})
	if err != nil {
		t.Fatalf("Complete() must not fail on side-effect errors: %v", err)
	}
	if result.CustomerLinked {
		t.Error("customerLinked should be false when shadow creation failed")
	}
	if result.Record.Status != models.RecordStatusCompleted {
		t.Fatalf("status = %q, want %q", result.Record.Status, models.RecordStatusCompleted)
	}
}

func TestCancelFromEitherPendingState(t *testing.T) {
	svc, records, _, _ := newTestEngine()
	ctx := context.Background()

	// Cancel while awaiting the code.
	id, _ := initiateTestRecord(t, svc)
	if err := svc.Cancel(ctx, testOwnerID, id); err != nil {
		t.Fatalf("Cancel(awaiting) error: %v", err)
	}
	rec, _ := records.GetByID(ctx, id)
	if rec.Status != models.RecordStatusCancelled {
		t.Fatalf("status = %q, want %q", rec.Status, models.RecordStatusCancelled)
	}
	if rec.OTP != "" {
		t.Error("cancellation must clear the one-time code")
	}

	// Cancel after verification.
	id2, code2 := initiateTestRecord(t, svc)
	if _, err := svc.VerifyCode(ctx, testOwnerID, id2, code2); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}
	if err := svc.Cancel(ctx, testOwnerID, id2); err != nil {
		t.Fatalf("Cancel(verified) error: %v", err)
	}
}

func TestCancelCompletedRejected(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)
	if _, err := svc.VerifyCode(ctx, testOwnerID, id, code); err != nil {
		t.Fatalf("VerifyCode() error: %v", err)
	}
	if _, err := svc.Complete(ctx, testOwnerID, id, CompleteInput{PaymentMethod: models.PaymentMethodCash}); err != nil {
		t.Fatalf("Complete() error: %v", err)
	}

	err := svc.Cancel(ctx, testOwnerID, id)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("Cancel(completed) error = %v, want ErrInvalidState", err)
	}
}

func TestVerifyAfterCancelRejected(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	id, code := initiateTestRecord(t, svc)
	if err := svc.Cancel(ctx, testOwnerID, id); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}

	_, err := svc.VerifyCode(ctx, testOwnerID, id, code)
	if !errors.Is(err, apperr.ErrInvalidState) {
		t.Fatalf("VerifyCode(cancelled) error = %v, want ErrInvalidState", err)
	}
}

func TestListScoping(t *testing.T) {
	svc, _, _, _ := newTestEngine()
	ctx := context.Background()
	initiateTestRecord(t, svc)
	initiateTestRecord(t, svc)

	byGarage, err := svc.ListForGarage(ctx, testOwnerID)
	if err != nil {
		t.Fatalf("ListForGarage() error: %v", err)
	}
	if len(byGarage) != 2 {
		t.Fatalf("ListForGarage() returned %d records, want 2", len(byGarage))
	}

	byPhone, err := svc.ListForCustomer(ctx, testPhone)
	if err != nil {
		t.Fatalf("ListForCustomer() error: %v", err)
	}
	if len(byPhone) != 2 {
		t.Fatalf("ListForCustomer() returned %d records, want 2", len(byPhone))
	}

	other, err := svc.ListForGarage(ctx, "owner-2")
	if err != nil {
		t.Fatalf("ListForGarage(other) error: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("other garage sees %d records, want 0", len(other))
	}
}
