package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/dlservice-api/internal/dto"
	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

var today = time.Date(2026, 10, 16, 10, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return today }

func validLearning() dto.LearningLicenseRequest {
	return dto.LearningLicenseRequest{
		Name: "Jane Doe", DOB: "2000-01-01", Gender: "female", PlaceOfBirth: "Pune",
		Phone: "9876543210", Email: "jane@example.com", Address: "1 Main St", City: "Pune",
		State: "MH", ZipCode: "411001", BloodGroup: "O+", RhFactor: "positive",
		Citizenship: "Indian", DocumentType: "passport",
	}
}

func TestAgeBoundary(t *testing.T) {
	assert.Equal(t, 17, Age(time.Date(2008, 10, 17, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 18, Age(time.Date(2008, 10, 16, 0, 0, 0, 0, time.UTC), today))
	assert.Equal(t, 26, Age(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), today))
}

func TestLearningRequestAdultRule(t *testing.T) {
	v := New(fixedNow)

	req := validLearning()
	require.NoError(t, v.Struct(req))

	req.DOB = "2008-10-17"
	err := Translate(v.Struct(req))
	assert.ErrorIs(t, err, appErrors.ErrUnderageApplicant)

	req.DOB = "2008-10-16"
	assert.NoError(t, v.Struct(req))
}

func TestDrivingRequestTestWindow(t *testing.T) {
	v := New(fixedNow)
	cases := map[int]bool{6: false, 7: true, 60: true, 61: false}
	for offset, ok := range cases {
		req := dto.DrivingLicenseRequest{
			LearningLicenseID: "APP202610011200AB12",
			TestDate:          today.AddDate(0, 0, offset).Format("2006-01-02"),
			TestTime:          "10:00",
		}
		err := Translate(v.Struct(req))
		if ok {
			assert.NoError(t, err, "offset %d", offset)
		} else {
			assert.ErrorIs(t, err, appErrors.ErrTestDateOutOfWindow, "offset %d", offset)
		}
	}
}

func TestTimeSlotRule(t *testing.T) {
	v := New(fixedNow)
	req := dto.DrivingLicenseRequest{
		LearningLicenseID: "APP1",
		TestDate:          today.AddDate(0, 0, 10).Format("2006-01-02"),
		TestTime:          "17:00",
	}
	err := Translate(v.Struct(req))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, err.Error(), "test_time")
}

func TestPaymentRequestRules(t *testing.T) {
	v := New(fixedNow)
	req := dto.PaymentRequest{CardNumber: "4242424242424242", CardHolder: "Jane Doe", ExpiryDate: "12/28", CVV: "123"}
	require.NoError(t, v.Struct(req))

	bad := req
	bad.CardNumber = "4242-4242-4242-4"
	assert.Error(t, v.Struct(bad))

	bad = req
	bad.CVV = "12a"
	assert.Error(t, v.Struct(bad))

	bad = req
	bad.ExpiryDate = "2028-12"
	err := Translate(v.Struct(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MM/YY")
}

func TestSignupConfirmPassword(t *testing.T) {
	v := New(fixedNow)
	req := models.SignupRequest{Username: "u1u1", Email: "e1@x.com", Password: "pw12345678", ConfirmPassword: "pw12345679"}
	err := Translate(v.Struct(req))
	require.ErrorIs(t, err, appErrors.ErrValidation)
	assert.Contains(t, err.Error(), "confirm_password")
}
