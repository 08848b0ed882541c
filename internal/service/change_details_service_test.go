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

func changeRequest(licenseNumber string) dto.ChangeDetailsRequest {
	return dto.ChangeDetailsRequest{
		LicenseNumber: licenseNumber,
		Address:       "44 Park Street",
		City:          "Kolkata",
		State:         "WB",
		ZipCode:       "700016",
		Phone:         "9123456780",
	}
}

func TestChangeDetailsVerify(t *testing.T) {
	h := newPortalHarness(t)
	seedDriving(t, h, "u-1", "DL20200101XYZ789")

	current, err := h.changes.Verify(context.Background(), models.Actor{UserID: "u-1"}, dto.VerifyLicenseRequest{LicenseNumber: "DL20200101XYZ789"})
	require.NoError(t, err)
	assert.Equal(t, "12 MG Road", current.Address)
	assert.Equal(t, "9876543210", current.Phone)

	_, err = h.changes.Verify(context.Background(), models.Actor{UserID: "u-2"}, dto.VerifyLicenseRequest{LicenseNumber: "DL20200101XYZ789"})
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicense))
}

func TestChangeDetailsApplyMutatesAndAppends(t *testing.T) {
	h := newPortalHarness(t)
	seedDriving(t, h, "u-1", "DL20200101XYZ789")
	actor := models.Actor{UserID: "u-1"}

	change, err := h.changes.Apply(context.Background(), actor, changeRequest("DL20200101XYZ789"))
	require.NoError(t, err)
	assert.Equal(t, models.ChangeRequestStatusPending, change.Status)

	stored := h.driving.items["DL20200101XYZ789"]
	assert.Equal(t, "44 Park Street", stored.Address)
	assert.Equal(t, "Kolkata", stored.City)
	assert.Equal(t, "WB", stored.State)
	assert.Equal(t, "700016", stored.ZipCode)
	assert.Equal(t, "9123456780", stored.Phone)
	assert.Equal(t, "Asha Rao", stored.Name)

	require.Len(t, h.driving.changes, 1)
	recorded := h.driving.changes[0]
	assert.Equal(t, "12 MG Road", recorded.OldAddress)
	assert.Equal(t, "44 Park Street", recorded.NewAddress)
	assert.Equal(t, "Pune", recorded.OldCity)
	assert.Equal(t, "Kolkata", recorded.NewCity)
	assert.Equal(t, "411001", recorded.OldZip)
	assert.Equal(t, "700016", recorded.NewZip)
	assert.Equal(t, "9876543210", recorded.OldPhone)
	assert.Equal(t, "9123456780", recorded.NewPhone)
	assert.Equal(t, fixedNow, recorded.RequestDate)

	assert.Equal(t, []string{models.AuditActionDetailsChange}, h.audit.actions())
	require.Len(t, h.events.events, 1)
	assert.Equal(t, models.EventDetailsChanged, h.events.events[0].Type)

	history, err := h.changes.History(context.Background(), actor, "DL20200101XYZ789")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, change.ID, history[0].ID)
}

func TestChangeDetailsApplyRejectsForeignAndInvalid(t *testing.T) {
	h := newPortalHarness(t)
	seedDriving(t, h, "u-2", "DL20200101XYZ789")

	_, err := h.changes.Apply(context.Background(), models.Actor{UserID: "u-1"}, changeRequest("DL20200101XYZ789"))
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicense))
	assert.Empty(t, h.driving.changes)

	req := changeRequest("DL20200101XYZ789")
	req.Phone = "12"
	_, err = h.changes.Apply(context.Background(), models.Actor{UserID: "u-2"}, req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, h.driving.changes)

	_, err = h.changes.History(context.Background(), models.Actor{UserID: "u-1"}, "DL20200101XYZ789")
	assert.True(t, errors.Is(err, appErrors.ErrUnknownLicense))
}

func TestChangeDetailsAuditFailureDoesNotFailRequest(t *testing.T) {
	h := newPortalHarness(t)
	h.audit.err = errors.New("audit table locked")
	seedDriving(t, h, "u-1", "DL20200101XYZ789")

	_, err := h.changes.Apply(context.Background(), models.Actor{UserID: "u-1"}, changeRequest("DL20200101XYZ789"))
	require.NoError(t, err)
	assert.Len(t, h.driving.changes, 1)
}
