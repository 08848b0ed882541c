package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

func TestStatusServiceScopesToCaller(t *testing.T) {
	h := newPortalHarness(t)
	seedLearning(t, h, "u-1", "APP202610010900WXYZ")

	_, err := h.status.Check(context.Background(), models.Actor{UserID: "u-2"}, "APP202610010900WXYZ")
	assert.True(t, errors.Is(err, appErrors.ErrApplicationNotFound))

	_, err = h.status.Check(context.Background(), models.Actor{UserID: "u-1"}, "APP-NOPE")
	assert.True(t, errors.Is(err, appErrors.ErrApplicationNotFound))

	_, err = h.status.Check(context.Background(), models.Actor{UserID: "u-1"}, "  ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStatusServiceDrivingLookup(t *testing.T) {
	h := newPortalHarness(t)
	dl := seedDriving(t, h, "u-1", "DL20200101XYZ789")

	status, err := h.status.Check(context.Background(), models.Actor{UserID: "u-1"}, dl.ApplicationID)
	require.NoError(t, err)
	assert.Equal(t, models.LicenseTypeDriving, status.Type)
	assert.Equal(t, "Scheduled", status.Status)
	assert.Equal(t, "DL20200101XYZ789", status.LicenseNumber)
}
