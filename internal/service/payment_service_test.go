package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

func TestPaymentLearningEndToEnd(t *testing.T) {
	h := newPortalHarness(t)
	authRepo := newMockAuthRepo()
	auth := newTestAuthService(authRepo)

	_, err := auth.Register(context.Background(), models.SignupRequest{Username: "u1", Email: "e1@x.com", Password: "pw12345678", ConfirmPassword: "pw12345678"})
	require.NoError(t, err)
	session, err := auth.Login(context.Background(), models.LoginRequest{Username: "u1", Password: "pw12345678"})
	require.NoError(t, err)
	actor := models.Actor{UserID: session.User.ID, Username: session.User.Username}

	_, err = h.learnSvc.Submit(context.Background(), actor, learningRequest("2000-01-01"), nil)
	require.NoError(t, err)

	quote, err := h.paySvc.Quote(context.Background(), actor, "learning")
	require.NoError(t, err)
	assert.Equal(t, 500, quote.Amount)
	assert.True(t, quote.Staged)

	result, err := h.paySvc.Process(context.Background(), actor, "learning", validCard())
	require.NoError(t, err)
	assert.Equal(t, 500, result.Amount)
	assert.True(t, strings.HasPrefix(result.ApplicationID, "APP"))
	assert.NotEmpty(t, result.PaymentID)

	status, err := h.status.Check(context.Background(), actor, result.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, "Learning License", status.Type)
	assert.Equal(t, "Processing", status.Status)
	assert.Equal(t, "7-10 business days", status.EstimatedProcessingTime)

	payment := h.payments.items[result.PaymentID]
	require.NotNil(t, payment)
	assert.Equal(t, "1111", payment.CardLast4)
	assert.Equal(t, result.ApplicationID, payment.Reference)

	_, err = h.paySvc.Process(context.Background(), actor, "learning", validCard())
	assert.True(t, errors.Is(err, appErrors.ErrMissingStagedData), "staging is cleared after fulfilment")
	assert.Contains(t, h.audit.actions(), models.AuditActionLearningIssue)
	require.NotEmpty(t, h.events.events)
	assert.Equal(t, models.EventLearningApplied, h.events.events[0].Type)
}

func TestPaymentDrivingEndToEnd(t *testing.T) {
	h := newPortalHarness(t)
	actor := models.Actor{UserID: "u-1"}
	ll := seedLearning(t, h, "u-1", "APP202609010900WXYZ")

	_, err := h.driveSvc.Submit(context.Background(), actor, dto.DrivingLicenseRequest{
		LearningLicenseID: ll.ApplicationID,
		TestDate:          fixedNow.AddDate(0, 0, 10).Format("2006-01-02"),
		TestTime:          "11:00",
	})
	require.NoError(t, err)

	result, err := h.paySvc.Process(context.Background(), actor, "driving", validCard())
	require.NoError(t, err)
	assert.Equal(t, 1000, result.Amount)
	assert.True(t, strings.HasPrefix(result.LicenseNumber, "DL"))
	assert.NotEmpty(t, result.ApplicationID)
	require.NotNil(t, result.ExpiryDate)
	assert.Equal(t, fixedNow.AddDate(10, 0, 0), *result.ExpiryDate)

	dl := h.driving.items[result.LicenseNumber]
	require.NotNil(t, dl)
	assert.Equal(t, models.DrivingStatusScheduled, dl.Status)
	assert.Equal(t, ll.ApplicantDetails, dl.ApplicantDetails)
	assert.Equal(t, ll.ApplicationID, dl.LearningLicenseID)
	assert.Equal(t, "11:00", dl.TestTime)

	status, err := h.status.Check(context.Background(), actor, result.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, "Driving License", status.Type)
	assert.Equal(t, "14-21 business days", status.EstimatedProcessingTime)
	assert.Equal(t, result.LicenseNumber, status.LicenseNumber)
}

func TestPaymentRenewalExtendsExpiryByTenYears(t *testing.T) {
	h := newPortalHarness(t)
	actor := models.Actor{UserID: "u-1"}
	dl := seedDriving(t, h, "u-1", "DL20161016QWE123")
	oldExpiry := dl.ExpiryDate

	_, err := h.renewSvc.Submit(context.Background(), actor, dto.RenewalRequest{LicenseNumber: dl.LicenseNumber, RenewalReason: "expiring"})
	require.NoError(t, err)

	result, err := h.paySvc.Process(context.Background(), actor, "renewal", validCard())
	require.NoError(t, err)
	assert.Equal(t, 750, result.Amount)
	require.NotNil(t, result.ExpiryDate)
	assert.Equal(t, oldExpiry.AddDate(10, 0, 0), *result.ExpiryDate)

	stored := h.driving.items[dl.LicenseNumber]
	assert.Equal(t, models.DrivingStatusRenewed, stored.Status)
	assert.Equal(t, oldExpiry.AddDate(10, 0, 0), stored.ExpiryDate)

	require.Len(t, h.driving.renewals, 1)
	renewal := h.driving.renewals[0]
	assert.Equal(t, oldExpiry, renewal.OldExpiryDate)
	assert.Equal(t, stored.ExpiryDate, renewal.NewExpiryDate)
	assert.Equal(t, "expiring", renewal.RenewalReason)
	assert.Contains(t, h.audit.actions(), models.AuditActionLicenseRenew)
}

func TestPaymentRejectsUnknownTypeAndMissingStage(t *testing.T) {
	h := newPortalHarness(t)
	actor := models.Actor{UserID: "u-1"}

	_, err := h.paySvc.Process(context.Background(), actor, "boat", validCard())
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicenseType))
	_, err = h.paySvc.Quote(context.Background(), actor, "boat")
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicenseType))

	_, err = h.paySvc.Process(context.Background(), actor, "renewal", validCard())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrMissingStagedData.Code, appErr.Code)
	assert.Equal(t, "invalid request", appErr.Message)

	quote, err := h.paySvc.Quote(context.Background(), actor, "renewal")
	require.NoError(t, err)
	assert.False(t, quote.Staged)
	assert.Nil(t, quote.ExpiresAt)
}

func TestPaymentValidatesCard(t *testing.T) {
	h := newPortalHarness(t)
	card := validCard()
	card.CardNumber = "4111"
	card.CVV = "12a"
	card.ExpiryDate = "2029-12"

	_, err := h.paySvc.Process(context.Background(), models.Actor{UserID: "u-1"}, "learning", card)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "card_number")
	assert.Contains(t, appErr.Message, "cvv")
	assert.Contains(t, appErr.Message, "expiry_date")
}

func TestPaymentDrivingRechecksLearningOwnership(t *testing.T) {
	h := newPortalHarness(t)
	actor := models.Actor{UserID: "u-1"}
	_, err := h.staging.Stage(context.Background(), models.WorkflowDriving, "u-1", models.DrivingStage{
		LearningLicenseID: "APP-OTHER-USER",
		TestDate:          fixedNow.AddDate(0, 0, 10),
		TestTime:          "09:00",
	})
	require.NoError(t, err)
	seedLearning(t, h, "u-2", "APP-OTHER-USER")

	_, err = h.paySvc.Process(context.Background(), actor, "driving", validCard())
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLearningLicense))
	assert.Empty(t, h.payments.items)
}

func TestPaymentRecordFailureStillFulfils(t *testing.T) {
	h := newPortalHarness(t)
	h.payments.createErr = errors.New("insert failed")
	actor := models.Actor{UserID: "u-1"}

	_, err := h.learnSvc.Submit(context.Background(), actor, learningRequest("2000-01-01"), nil)
	require.NoError(t, err)
	result, err := h.paySvc.Process(context.Background(), actor, "learning", validCard())
	require.NoError(t, err)
	assert.Empty(t, result.PaymentID)
	assert.Len(t, h.learning.items, 1)
}

func TestPaymentReceipt(t *testing.T) {
	h := newPortalHarness(t)
	actor := models.Actor{UserID: "u-1"}
	_, err := h.learnSvc.Submit(context.Background(), actor, learningRequest("2000-01-01"), nil)
	require.NoError(t, err)
	result, err := h.paySvc.Process(context.Background(), actor, "learning", validCard())
	require.NoError(t, err)

	pdf, filename, err := h.paySvc.Receipt(context.Background(), actor, result.PaymentID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	assert.Equal(t, "receipt-"+result.PaymentID+".pdf", filename)

	_, _, err = h.paySvc.Receipt(context.Background(), models.Actor{UserID: "u-2"}, result.PaymentID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
