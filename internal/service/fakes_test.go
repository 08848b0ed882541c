package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/dlservice-api/internal/models"
	appErrors "github.com/noah-isme/dlservice-api/pkg/errors"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type memoryPendingStore struct {
	mu     sync.Mutex
	items  map[string]*models.PendingTransaction
	putErr error
}

func newMemoryPendingStore() *memoryPendingStore {
	return &memoryPendingStore{items: make(map[string]*models.PendingTransaction)}
}

func pendingKey(workflow models.Workflow, userID string) string {
	return string(workflow) + ":" + userID
}

func (s *memoryPendingStore) Put(ctx context.Context, tx *models.PendingTransaction) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *tx
	s.items[pendingKey(tx.Workflow, tx.UserID)] = &copied
	return nil
}

func (s *memoryPendingStore) Get(ctx context.Context, workflow models.Workflow, userID string) (*models.PendingTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[pendingKey(workflow, userID)]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	copied := *tx
	return &copied, nil
}

func (s *memoryPendingStore) Delete(ctx context.Context, workflow models.Workflow, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, pendingKey(workflow, userID))
	return nil
}

type memoryLearningStore struct {
	items map[string]*models.LearningLicense
}

func newMemoryLearningStore() *memoryLearningStore {
	return &memoryLearningStore{items: make(map[string]*models.LearningLicense)}
}

func (s *memoryLearningStore) Create(ctx context.Context, ll *models.LearningLicense) error {
	if ll.ID == "" {
		ll.ID = fmt.Sprintf("ll-%d", len(s.items)+1)
	}
	copied := *ll
	s.items[ll.ApplicationID] = &copied
	return nil
}

func (s *memoryLearningStore) FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.LearningLicense, error) {
	ll, ok := s.items[applicationID]
	if !ok || ll.UserID != userID {
		return nil, sql.ErrNoRows
	}
	copied := *ll
	return &copied, nil
}

func (s *memoryLearningStore) ListByUser(ctx context.Context, userID string) ([]models.LearningLicense, error) {
	var out []models.LearningLicense
	for _, ll := range s.items {
		if ll.UserID == userID {
			out = append(out, *ll)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApplicationID < out[j].ApplicationID })
	return out, nil
}

type memoryDrivingStore struct {
	items    map[string]*models.DrivingLicense
	renewals []models.LicenseRenewal
	changes  []models.LicenseChangeRequest
}

func newMemoryDrivingStore() *memoryDrivingStore {
	return &memoryDrivingStore{items: make(map[string]*models.DrivingLicense)}
}

func (s *memoryDrivingStore) Create(ctx context.Context, dl *models.DrivingLicense) error {
	if dl.ID == "" {
		dl.ID = fmt.Sprintf("dl-%d", len(s.items)+1)
	}
	copied := *dl
	s.items[dl.LicenseNumber] = &copied
	return nil
}

func (s *memoryDrivingStore) FindByLicenseNumberForUser(ctx context.Context, licenseNumber, userID string) (*models.DrivingLicense, error) {
	dl, ok := s.items[licenseNumber]
	if !ok || dl.UserID != userID {
		return nil, sql.ErrNoRows
	}
	copied := *dl
	return &copied, nil
}

func (s *memoryDrivingStore) FindByApplicationIDForUser(ctx context.Context, applicationID, userID string) (*models.DrivingLicense, error) {
	for _, dl := range s.items {
		if dl.ApplicationID == applicationID && dl.UserID == userID {
			copied := *dl
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memoryDrivingStore) ListByUser(ctx context.Context, userID string) ([]models.DrivingLicense, error) {
	var out []models.DrivingLicense
	for _, dl := range s.items {
		if dl.UserID == userID {
			out = append(out, *dl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LicenseNumber < out[j].LicenseNumber })
	return out, nil
}

func (s *memoryDrivingStore) Renew(ctx context.Context, dl *models.DrivingLicense, renewal *models.LicenseRenewal) error {
	stored, ok := s.items[dl.LicenseNumber]
	if !ok {
		return sql.ErrNoRows
	}
	if renewal.ID == "" {
		renewal.ID = fmt.Sprintf("rn-%d", len(s.renewals)+1)
	}
	stored.ExpiryDate = dl.ExpiryDate
	stored.Status = dl.Status
	s.renewals = append(s.renewals, *renewal)
	return nil
}

func (s *memoryDrivingStore) ApplyContactChange(ctx context.Context, licenseID string, change *models.LicenseChangeRequest) error {
	for _, dl := range s.items {
		if dl.ID != licenseID {
			continue
		}
		if change.ID == "" {
			change.ID = fmt.Sprintf("cr-%d", len(s.changes)+1)
		}
		dl.Address = change.NewAddress
		dl.City = change.NewCity
		dl.State = change.NewState
		dl.ZipCode = change.NewZip
		dl.Phone = change.NewPhone
		s.changes = append(s.changes, *change)
		return nil
	}
	return sql.ErrNoRows
}

func (s *memoryDrivingStore) ListByLicense(ctx context.Context, userID, licenseNumber string) ([]models.LicenseChangeRequest, error) {
	var out []models.LicenseChangeRequest
	for i := len(s.changes) - 1; i >= 0; i-- {
		if s.changes[i].UserID == userID && s.changes[i].LicenseNumber == licenseNumber {
			out = append(out, s.changes[i])
		}
	}
	return out, nil
}

func (s *memoryDrivingStore) ListRenewals(userID string) []models.LicenseRenewal {
	var out []models.LicenseRenewal
	for _, r := range s.renewals {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

type memoryRenewalStore struct {
	driving *memoryDrivingStore
}

func (s memoryRenewalStore) ListByUser(ctx context.Context, userID string) ([]models.LicenseRenewal, error) {
	return s.driving.ListRenewals(userID), nil
}

type memoryPaymentStore struct {
	items     map[string]*models.Payment
	createErr error
}

func newMemoryPaymentStore() *memoryPaymentStore {
	return &memoryPaymentStore{items: make(map[string]*models.Payment)}
}

func (s *memoryPaymentStore) Create(ctx context.Context, p *models.Payment) error {
	if s.createErr != nil {
		return s.createErr
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("pay-%d", len(s.items)+1)
	}
	copied := *p
	s.items[p.ID] = &copied
	return nil
}

func (s *memoryPaymentStore) FindByIDForUser(ctx context.Context, id, userID string) (*models.Payment, error) {
	p, ok := s.items[id]
	if !ok || p.UserID != userID {
		return nil, sql.ErrNoRows
	}
	copied := *p
	return &copied, nil
}

type auditRecorder struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditRecorder) actions() []string {
	out := make([]string, len(a.logs))
	for i, l := range a.logs {
		out[i] = l.Action
	}
	return out
}

type eventRecorder struct {
	events []models.LicenseEvent
}

func (e *eventRecorder) Publish(ctx context.Context, event models.LicenseEvent) {
	e.events = append(e.events, event)
}

type sequenceIDs struct {
	apps     []string
	licenses []string
}

func (s *sequenceIDs) ApplicationID(ctx context.Context) (string, error) {
	if len(s.apps) == 0 {
		return "", fmt.Errorf("no application ids left")
	}
	id := s.apps[0]
	s.apps = s.apps[1:]
	return id, nil
}

func (s *sequenceIDs) LicenseNumber(ctx context.Context) (string, error) {
	if len(s.licenses) == 0 {
		return "", fmt.Errorf("no license numbers left")
	}
	id := s.licenses[0]
	s.licenses = s.licenses[1:]
	return id, nil
}

func sampleApplicant() models.ApplicantDetails {
	return models.ApplicantDetails{
		Name:         "Asha Rao",
		DOB:          time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:       "female",
		PlaceOfBirth: "Pune",
		Email:        "e1@x.com",
		ContactDetails: models.ContactDetails{
			Phone:   "9876543210",
			Address: "12 MG Road",
			City:    "Pune",
			State:   "MH",
			ZipCode: "411001",
		},
		BloodGroup:  "O+",
		RhFactor:    "positive",
		Citizenship: "Indian",
	}
}
