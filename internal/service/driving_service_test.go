package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

func TestDrivingServiceTestDateWindow(t *testing.T) {
	h := newPortalHarness(t)
	seedLearning(t, h, "u-1", "APP202610010900WXYZ")
	actor := models.Actor{UserID: "u-1"}

	cases := []struct {
		days int
		ok   bool
	}{
		{days: 6, ok: false},
		{days: 7, ok: true},
		{days: 60, ok: true},
		{days: 61, ok: false},
	}
	for _, tc := range cases {
		req := dto.DrivingLicenseRequest{
			LearningLicenseID: "APP202610010900WXYZ",
			TestDate:          fixedNow.AddDate(0, 0, tc.days).Format("2006-01-02"),
			TestTime:          "10:00",
		}
		_, err := h.driveSvc.Submit(context.Background(), actor, req)
		if tc.ok {
			assert.NoError(t, err, "today+%d", tc.days)
		} else {
			assert.True(t, errors.Is(err, appErrors.ErrTestDateOutOfWindow), "today+%d", tc.days)
		}
	}
}

func TestDrivingServiceRejectsForeignLearningLicense(t *testing.T) {
	h := newPortalHarness(t)
	seedLearning(t, h, "u-2", "APP202610010900WXYZ")

	_, err := h.driveSvc.Submit(context.Background(), models.Actor{UserID: "u-1"}, dto.DrivingLicenseRequest{
		LearningLicenseID: "APP202610010900WXYZ",
		TestDate:          fixedNow.AddDate(0, 0, 10).Format("2006-01-02"),
		TestTime:          "10:00",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLearningLicense))

	_, missing := h.driveSvc.Submit(context.Background(), models.Actor{UserID: "u-1"}, dto.DrivingLicenseRequest{
		LearningLicenseID: "APP-DOES-NOT-EXIST",
		TestDate:          fixedNow.AddDate(0, 0, 10).Format("2006-01-02"),
		TestTime:          "10:00",
	})
	assert.Equal(t, appErrors.FromError(err), appErrors.FromError(missing))
}

func TestDrivingServiceRejectsUnknownSlot(t *testing.T) {
	h := newPortalHarness(t)
	seedLearning(t, h, "u-1", "APP202610010900WXYZ")

	_, err := h.driveSvc.Submit(context.Background(), models.Actor{UserID: "u-1"}, dto.DrivingLicenseRequest{
		LearningLicenseID: "APP202610010900WXYZ",
		TestDate:          fixedNow.AddDate(0, 0, 10).Format("2006-01-02"),
		TestTime:          "17:00",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDrivingServiceForm(t *testing.T) {
	h := newPortalHarness(t)
	form := h.driveSvc.Form()
	assert.Equal(t, "2026-10-23", form.EarliestTestDate.Format("2006-01-02"))
	assert.Equal(t, "2026-12-15", form.LatestTestDate.Format("2006-01-02"))
	require.Len(t, form.TimeSlots, 8)
	assert.Equal(t, dto.Choice{Value: "09:00", Label: "09:00 AM"}, form.TimeSlots[0])
	assert.Equal(t, dto.Choice{Value: "16:00", Label: "04:00 PM"}, form.TimeSlots[7])
	assert.Equal(t, 1000, form.Fee)
}

func TestRenewalServiceOwnership(t *testing.T) {
	h := newPortalHarness(t)
	seedDriving(t, h, "u-2", "DL20200101XYZ789")

	_, err := h.renewSvc.Submit(context.Background(), models.Actor{UserID: "u-1"}, dto.RenewalRequest{LicenseNumber: "DL20200101XYZ789", RenewalReason: "expired"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicense))

	_, err = h.renewSvc.Submit(context.Background(), models.Actor{UserID: "u-2"}, dto.RenewalRequest{LicenseNumber: "DL20200101XYZ789", RenewalReason: "lost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	tx, err := h.renewSvc.Submit(context.Background(), models.Actor{UserID: "u-2"}, dto.RenewalRequest{LicenseNumber: " DL20200101XYZ789 ", RenewalReason: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, models.WorkflowRenewal, tx.Workflow)
	assert.Len(t, h.renewSvc.Form().Reasons, 3)
}
