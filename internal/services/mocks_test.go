package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/repository"
)

// MockQualificationRepository implements QualificationRepository for testing
type MockQualificationRepository struct {
	qualifications map[string]*models.SupplierQualification // by qualification id
}

func NewMockQualificationRepository() *MockQualificationRepository {
	return &MockQualificationRepository{
		qualifications: make(map[string]*models.SupplierQualification),
	}
}

func (m *MockQualificationRepository) Create(q *models.SupplierQualification) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now
	stored := *q
	m.qualifications[q.QualificationID] = &stored
	return nil
}

func (m *MockQualificationRepository) GetByQualificationID(qualificationID string) (*models.SupplierQualification, error) {
	q, ok := m.qualifications[qualificationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *q
	return &copied, nil
}

func (m *MockQualificationRepository) GetBySupplierID(supplierID string) (*models.SupplierQualification, error) {
	for _, q := range m.qualifications {
		if q.SupplierID == supplierID {
			copied := *q
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockQualificationRepository) List(organizationID string, filters repository.QualificationFilters) ([]models.SupplierQualification, error) {
	var result []models.SupplierQualification
	for _, q := range m.qualifications {
		if q.OrganizationID != organizationID {
			continue
		}
		if filters.Status != "" && q.Status != filters.Status {
			continue
		}
		if filters.Tier != "" && q.Tier != filters.Tier {
			continue
		}
		if filters.RiskLevel != "" && string(q.OverallRiskLevel) != filters.RiskLevel {
			continue
		}
		result = append(result, *q)
	}
	return result, nil
}

func (m *MockQualificationRepository) Update(q *models.SupplierQualification) error {
	if _, ok := m.qualifications[q.QualificationID]; !ok {
		return repository.ErrNotFound
	}
	q.UpdatedAt = time.Now()
	stored := *q
	m.qualifications[q.QualificationID] = &stored
	return nil
}

// MockRequirementRepository implements RequirementRepository for testing
type MockRequirementRepository struct {
	requirements []models.ComplianceRequirement
}

func NewMockRequirementRepository() *MockRequirementRepository {
	return &MockRequirementRepository{}
}

func (m *MockRequirementRepository) Create(r *models.ComplianceRequirement) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	now := time.Now()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.requirements = append(m.requirements, *r)
	return nil
}

func (m *MockRequirementRepository) List(organizationID string) ([]models.ComplianceRequirement, error) {
	var result []models.ComplianceRequirement
	for _, r := range m.requirements {
		if r.OrganizationID == organizationID {
			result = append(result, r)
		}
	}
	return result, nil
}

// MockShipmentRepository implements ShipmentRepository for testing
type MockShipmentRepository struct {
	shipments map[string]*models.Shipment // by shipment id
}

func NewMockShipmentRepository() *MockShipmentRepository {
	return &MockShipmentRepository{
		shipments: make(map[string]*models.Shipment),
	}
}

func (m *MockShipmentRepository) Create(s *models.Shipment) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
	stored := *s
	m.shipments[s.ShipmentID] = &stored
	return nil
}

func (m *MockShipmentRepository) GetByShipmentID(shipmentID string) (*models.Shipment, error) {
	s, ok := m.shipments[shipmentID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *MockShipmentRepository) List(organizationID string, filters repository.ShipmentFilters, page repository.Pagination) ([]models.Shipment, int, error) {
	var result []models.Shipment
	for _, s := range m.shipments {
		if s.OrganizationID != organizationID {
			continue
		}
		if filters.Status != "" && s.Status != filters.Status {
			continue
		}
		result = append(result, *s)
	}
	return result, len(result), nil
}

func (m *MockShipmentRepository) ListByDateRange(organizationID string, from, to time.Time) ([]models.Shipment, error) {
	var result []models.Shipment
	for _, s := range m.shipments {
		if s.OrganizationID != organizationID {
			continue
		}
		if s.CreatedAt.Before(from) || s.CreatedAt.After(to) {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *MockShipmentRepository) ListByStatuses(organizationID string, statuses []models.ShipmentStatus, orderBy string) ([]models.Shipment, error) {
	var result []models.Shipment
	for _, s := range m.shipments {
		if s.OrganizationID != organizationID {
			continue
		}
		for _, status := range statuses {
			if s.Status == status {
				result = append(result, *s)
				break
			}
		}
	}
	return result, nil
}

func (m *MockShipmentRepository) Update(s *models.Shipment) error {
	if _, ok := m.shipments[s.ShipmentID]; !ok {
		return repository.ErrNotFound
	}
	s.UpdatedAt = time.Now()
	stored := *s
	m.shipments[s.ShipmentID] = &stored
	return nil
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	users map[uuid.UUID]*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[uuid.UUID]*models.User),
	}
}

func (m *MockUserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) Create(user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) Update(user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

// mockTransactionManager runs the callback against the same repositories
type mockTransactionManager struct {
	repos *repository.Repositories
}

func (m *mockTransactionManager) WithTransaction(fn func(repos *repository.Repositories) error) error {
	return fn(m.repos)
}

// fakeTrackingClient returns canned events or a canned error
type fakeTrackingClient struct {
	events    []models.ShipmentEvent
	err       error
	unhealthy bool
	fetches   int
}

func (f *fakeTrackingClient) FetchEvents(carrier models.CarrierInfo) ([]models.ShipmentEvent, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeTrackingClient) IsHealthy(carrierCode string) bool {
	return !f.unhealthy
}

func newTestRepositories() *repository.Repositories {
	repos := &repository.Repositories{
		Qualification: NewMockQualificationRepository(),
		Requirement:   NewMockRequirementRepository(),
		Shipment:      NewMockShipmentRepository(),
		User:          NewMockUserRepository(),
	}
	repos.Tx = &mockTransactionManager{repos: repos}
	return repos
}

func newTestQualificationService() QualificationService {
	return newQualificationService(newTestRepositories(), logger.NewNop())
}

func newTestShipmentService(tracker TrackingClient) ShipmentService {
	if tracker == nil {
		tracker = &fakeTrackingClient{}
	}
	return newShipmentService(newTestRepositories(), tracker, logger.NewNop())
}
