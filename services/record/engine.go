package record

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	garageRepo "garagelink/database/repository/garage"
	recordRepo "garagelink/database/repository/record"
	"garagelink/models"
	"garagelink/services/apperr"
	"garagelink/services/identity"
	"garagelink/services/notification"
	"garagelink/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultServiceRecordService implements ServiceRecordService.
type DefaultServiceRecordService struct {
	Repo     recordRepo.ServiceRecordRepository
	Garages  garageRepo.GarageRepository
	Identity identity.IdentityService
	Notifier notification.NotificationService
	Fees     FeePolicy
	OTPTTL   time.Duration
	EchoOTP  bool

	// Now is overridable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultServiceRecordService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// operatorGarage resolves the caller to their onboarded garage profile.
func (s *DefaultServiceRecordService) operatorGarage(ctx context.Context, operatorID string) (*models.Garage, error) {
	garage, err := s.Garages.GetByOwnerID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Wrap(apperr.ErrForbidden, "caller has no garage profile")
		}
		return nil, err
	}
	if !garage.Onboarded {
		return nil, apperr.Wrap(apperr.ErrForbidden, "garage %s is not onboarded", garage.ID)
	}
	return garage, nil
}

// ownedRecord fetches a record and checks it belongs to the operator's garage.
func (s *DefaultServiceRecordService) ownedRecord(ctx context.Context, operatorID, recordID string) (*models.ServiceRecord, error) {
	garage, err := s.operatorGarage(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	rec, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.GarageID != garage.ID {
		return nil, apperr.Wrap(apperr.ErrForbidden, "record %s belongs to another garage", recordID)
	}
	return rec, nil
}

func (s *DefaultServiceRecordService) Initiate(ctx context.Context, operatorID string, in InitiateInput) (*InitiateResult, error) {
	garage, err := s.operatorGarage(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	if in.CustomerPhone == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "customerPhone is required")
	}
	if in.Description == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "description is required")
	}

	// The fee split is fixed here and never recomputed.
	platformFee, garageEarnings, err := s.Fees.Compute(in.Amount)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate one-time code: %w", err)
	}
	expiry := s.now().Add(s.OTPTTL)

	rec := &models.ServiceRecord{
		ID:             uuid.New().String(),
		GarageID:       garage.ID,
		GarageName:     garage.Name,
		CustomerPhone:  in.CustomerPhone,
		Description:    in.Description,
		Amount:         in.Amount,
		PlatformFee:    platformFee,
		GarageEarnings: garageEarnings,
		Status:         models.RecordStatusAwaitingCode,
		OTP:            code,
		OTPExpiry:      &expiry,
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	// Delivery is best-effort: the state machine is correct without it.
	otpSent := s.deliver(ctx, in.CustomerPhone, models.TemplateServiceOTP, map[string]string{
		"garageName": garage.Name,
		"code":       code,
		"ttlMinutes": strconv.Itoa(int(s.OTPTTL.Minutes())),
	})

	result := &InitiateResult{ServiceID: rec.ID, OTPSent: otpSent}
	if s.EchoOTP {
		result.DevOTP = code
	}
	return result, nil
}

func (s *DefaultServiceRecordService) VerifyCode(ctx context.Context, operatorID, recordID, code string) (*FeeBreakdown, error) {
	if code == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "otp is required")
	}
	rec, err := s.ownedRecord(ctx, operatorID, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.RecordStatusAwaitingCode {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "record %s is %s, expected %s", recordID, rec.Status, models.RecordStatusAwaitingCode)
	}
	if rec.OTPExpiry == nil {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "record %s carries no one-time code", recordID)
	}
	if err := utils.ValidateOTP(rec.OTP, code, *rec.OTPExpiry, s.now()); err != nil {
		if errors.Is(err, apperr.ErrExpired) {
			return nil, apperr.Wrap(apperr.ErrExpired, "one-time code expired, initiate a new service record")
		}
		return nil, err
	}

	// Status-conditioned write: of two racing verifications only one can
	// match, the other observes the state conflict.
	matched, err := s.Repo.MarkCodeVerified(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "record %s was transitioned concurrently", recordID)
	}

	return &FeeBreakdown{
		Amount:         rec.Amount,
		PlatformFee:    rec.PlatformFee,
		GarageEarnings: rec.GarageEarnings,
	}, nil
}

func (s *DefaultServiceRecordService) Complete(ctx context.Context, operatorID, recordID string, in CompleteInput) (*CompleteResult, error) {
	if in.PaymentMethod != models.PaymentMethodCash && in.PaymentMethod != models.PaymentMethodOnline {
		return nil, apperr.Wrap(apperr.ErrValidation, "paymentMethod must be %q or %q", models.PaymentMethodCash, models.PaymentMethodOnline)
	}
	if in.PaymentMethod == models.PaymentMethodOnline && in.PaymentRef == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "paymentRef is required for online payments")
	}

	rec, err := s.ownedRecord(ctx, operatorID, recordID)
	if err != nil {
		return nil, err
	}
	if rec.Status != models.RecordStatusCodeVerified {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "record %s is %s, expected %s", recordID, rec.Status, models.RecordStatusCodeVerified)
	}

	// Cash is not verifiable through any channel; the flag is set once and
	// never recomputed.
	isReliable := in.PaymentMethod == models.PaymentMethodOnline

	matched, err := s.Repo.MarkCompleted(ctx, recordID, in.PaymentMethod, in.PaymentRef, isReliable)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, apperr.Wrap(apperr.ErrInvalidState, "record %s was transitioned concurrently", recordID)
	}

	// The financial record is complete once the status flipped; everything
	// below is best-effort and must not roll it back.
	logger := utils.GetLogger()
	customerLinked := false
	if created, err := s.Identity.EnsureShadowCustomer(ctx, rec.CustomerPhone); err != nil {
		logger.Warn("failed to create shadow customer",
			zap.String("recordId", recordID), zap.Error(err))
	} else {
		customerLinked = created
	}

	notificationSent := s.deliver(ctx, rec.CustomerPhone, models.TemplateServiceInvoice, map[string]string{
		"garageName":    rec.GarageName,
		"description":   rec.Description,
		"amount":        fmt.Sprintf("%.2f", rec.Amount),
		"paymentMethod": in.PaymentMethod,
	})

	final, err := s.Repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return &CompleteResult{
		Record:           final,
		NotificationSent: notificationSent,
		CustomerLinked:   customerLinked,
	}, nil
}

func (s *DefaultServiceRecordService) Cancel(ctx context.Context, operatorID, recordID string) error {
	rec, err := s.ownedRecord(ctx, operatorID, recordID)
	if err != nil {
		return err
	}
	if rec.Status == models.RecordStatusCompleted || rec.Status == models.RecordStatusCancelled {
		return apperr.Wrap(apperr.ErrInvalidState, "record %s is already %s", recordID, rec.Status)
	}
	matched, err := s.Repo.MarkCancelled(ctx, recordID)
	if err != nil {
		return err
	}
	if !matched {
		return apperr.Wrap(apperr.ErrInvalidState, "record %s was transitioned concurrently", recordID)
	}
	return nil
}

func (s *DefaultServiceRecordService) ListForGarage(ctx context.Context, operatorID string) ([]models.ServiceRecord, error) {
	garage, err := s.operatorGarage(ctx, operatorID)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByGarage(ctx, garage.ID)
}

func (s *DefaultServiceRecordService) ListForCustomer(ctx context.Context, phone string) ([]models.ServiceRecord, error) {
	if phone == "" {
		return nil, apperr.Wrap(apperr.ErrValidation, "phone is required")
	}
	return s.Repo.ListByPhone(ctx, phone)
}

// deliver attempts a best-effort notification and reports whether it was
// handed off to the delivery channel.
func (s *DefaultServiceRecordService) deliver(ctx context.Context, phone, template string, params map[string]string) bool {
	if s.Notifier == nil || !s.Notifier.IsConfigured() {
		return false
	}
	if err := s.Notifier.Send(ctx, phone, template, params); err != nil {
		utils.GetLogger().Warn("notification delivery failed",
			zap.String("phone", phone), zap.String("template", template), zap.Error(err))
		return false
	}
	return true
}
