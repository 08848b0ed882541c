package dto

// LearningLicenseRequest is the learning license application form. The document
// itself arrives as the multipart field "document".
type LearningLicenseRequest struct {
	Name         string `form:"name" json:"name" validate:"required,max=100"`
	DOB          string `form:"dob" json:"dob" validate:"required,datetime=2006-01-02,adult"`
	Gender       string `form:"gender" json:"gender" validate:"required,oneof=male female other"`
	PlaceOfBirth string `form:"place_of_birth" json:"place_of_birth" validate:"required,max=100"`
	Phone        string `form:"phone" json:"phone" validate:"required,min=10,max=15"`
	Email        string `form:"email" json:"email" validate:"required,email"`
	Address      string `form:"address" json:"address" validate:"required,max=200"`
	City         string `form:"city" json:"city" validate:"required,max=50"`
	State        string `form:"state" json:"state" validate:"required,max=50"`
	ZipCode      string `form:"zip_code" json:"zip_code" validate:"required,max=10"`
	BloodGroup   string `form:"blood_group" json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	RhFactor     string `form:"rh_factor" json:"rh_factor" validate:"required,oneof=positive negative"`
	Citizenship  string `form:"citizenship" json:"citizenship" validate:"required,max=50"`
	DocumentType string `form:"document_type" json:"document_type" validate:"required,oneof=aadhar passport voter_id pan_card"`
}

// DrivingLicenseRequest books a driving test against a learning license.
type DrivingLicenseRequest struct {
	LearningLicenseID string `form:"learning_license_id" json:"learning_license_id" validate:"required"`
	TestDate          string `form:"test_date" json:"test_date" validate:"required,datetime=2006-01-02,testwindow"`
	TestTime          string `form:"test_time" json:"test_time" validate:"required,timeslot"`
}

// RenewalRequest asks for a driving license renewal.
type RenewalRequest struct {
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required"`
	RenewalReason string `form:"renewal_reason" json:"renewal_reason" validate:"required,oneof=expiring expired damaged"`
}

// VerifyLicenseRequest is the first step of the change-details flow.
type VerifyLicenseRequest struct {
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required"`
}

// ChangeDetailsRequest carries the new contact details for a license.
type ChangeDetailsRequest struct {
	LicenseNumber string `form:"license_number" json:"license_number" validate:"required"`
	Address       string `form:"address" json:"address" validate:"required,max=200"`
	City          string `form:"city" json:"city" validate:"required,max=50"`
	State         string `form:"state" json:"state" validate:"required,max=50"`
	ZipCode       string `form:"zip_code" json:"zip_code" validate:"required,max=10"`
	Phone         string `form:"phone" json:"phone" validate:"required,min=10,max=15"`
}

// StatusRequest looks up an application by ID.
type StatusRequest struct {
	ApplicationID string `form:"application_id" json:"application_id" validate:"required"`
}

// PaymentRequest is the simulated card form.
type PaymentRequest struct {
	CardNumber string `form:"card_number" json:"card_number" validate:"required,len=16,digits"`
	CardHolder string `form:"card_holder" json:"card_holder" validate:"required,max=100"`
	ExpiryDate string `form:"expiry_date" json:"expiry_date" validate:"required,cardexpiry"`
	CVV        string `form:"cvv" json:"cvv" validate:"required,len=3,digits"`
}
