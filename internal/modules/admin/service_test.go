package admin

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hourlystay/internal/domain"
	"hourlystay/internal/platform"
)

type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) ListListings(ctx context.Context, token string, archived bool, limit, offset int) ([]platform.Listing, error) {
	args := m.Called(ctx, token, archived, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Listing), args.Error(1)
}

func (m *mockPlatform) GetListing(ctx context.Context, token string, id int64) (*platform.Listing, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Listing), args.Error(1)
}

func (m *mockPlatform) ArchiveListing(ctx context.Context, token string, id int64) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockPlatform) ModerationQueue(ctx context.Context, token, status string) ([]platform.Listing, error) {
	args := m.Called(ctx, token, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Listing), args.Error(1)
}

func (m *mockPlatform) ModerateListing(ctx context.Context, token string, id int64, action, reason string) error {
	return m.Called(ctx, token, id, action, reason).Error(0)
}

func (m *mockPlatform) UpdateExpertRating(ctx context.Context, token string, id int64, rating int, feedback string) error {
	return m.Called(ctx, token, id, rating, feedback).Error(0)
}

func (m *mockPlatform) ListEmployees(ctx context.Context, token string) ([]platform.Employee, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Employee), args.Error(1)
}

func (m *mockPlatform) CreateEmployee(ctx context.Context, token string, e platform.Employee) (*platform.Employee, error) {
	args := m.Called(ctx, token, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Employee), args.Error(1)
}

func (m *mockPlatform) UpdateEmployee(ctx context.Context, token string, id int64, e platform.Employee) (*platform.Employee, error) {
	args := m.Called(ctx, token, id, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Employee), args.Error(1)
}

func (m *mockPlatform) DeleteEmployee(ctx context.Context, token string, id int64) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockPlatform) ListOwners(ctx context.Context, token string) ([]platform.Owner, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.Owner), args.Error(1)
}

func (m *mockPlatform) CreateOwner(ctx context.Context, token string, o platform.Owner) (*platform.Owner, error) {
	args := m.Called(ctx, token, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Owner), args.Error(1)
}

func (m *mockPlatform) UpdateOwner(ctx context.Context, token string, id int64, o platform.Owner) (*platform.Owner, error) {
	args := m.Called(ctx, token, id, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Owner), args.Error(1)
}

func (m *mockPlatform) AccrueBonus(ctx context.Context, token string, ownerID int64, amount float64, comment string) error {
	return m.Called(ctx, token, ownerID, amount, comment).Error(0)
}

func (m *mockPlatform) ListCalls(ctx context.Context, token string, listingID int64, limit, offset int) ([]platform.CallRecord, error) {
	args := m.Called(ctx, token, listingID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]platform.CallRecord), args.Error(1)
}

type memNotifier struct {
	mu     sync.Mutex
	events []string
	owners []int64
}

func (n *memNotifier) Notify(ownerID int64, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	n.owners = append(n.owners, ownerID)
}

func ownedListing(id, ownerID int64) *platform.Listing {
	d := domain.NewListingDraft()
	d.ID = id
	l := &platform.Listing{ListingDraft: d}
	l.OwnerID = ownerID
	return l
}

func TestModerate_RejectRequiresReason(t *testing.T) {
	svc := NewService(&mockPlatform{}, nil)
	err := svc.Moderate(context.Background(), "tok", 5, "reject", "   ")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestModerate_ApproveNotifiesOwner(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("GetListing", mock.Anything, "tok", int64(5)).Return(ownedListing(5, 77), nil)
	backend.On("ModerateListing", mock.Anything, "tok", int64(5), "approve", "").Return(nil)

	notifier := &memNotifier{}
	svc := NewService(backend, notifier)

	require.NoError(t, svc.Moderate(context.Background(), "tok", 5, "approve", "игнорируется"))
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventListingApproved, notifier.events[0])
	assert.Equal(t, int64(77), notifier.owners[0])
	backend.AssertExpectations(t)
}

func TestModerate_RejectPassesReason(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("GetListing", mock.Anything, "tok", int64(5)).Return(ownedListing(5, 77), nil)
	backend.On("ModerateListing", mock.Anything, "tok", int64(5), "reject", "нет фотографий").Return(nil)

	notifier := &memNotifier{}
	svc := NewService(backend, notifier)

	require.NoError(t, svc.Moderate(context.Background(), "tok", 5, "reject", "нет фотографий"))
	require.Len(t, notifier.events, 1)
	assert.Equal(t, EventListingRejected, notifier.events[0])
}

func TestModerate_UnknownAction(t *testing.T) {
	svc := NewService(&mockPlatform{}, nil)
	err := svc.Moderate(context.Background(), "tok", 5, "promote", "")
	assert.ErrorIs(t, err, ErrBadModerationAction)
}

func TestModerationQueue_ValidatesStatus(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("ModerationQueue", mock.Anything, "tok", platform.ModerationPending).
		Return([]platform.Listing{}, nil)

	svc := NewService(backend, nil)
	_, err := svc.ModerationQueue(context.Background(), "tok", "")
	require.NoError(t, err, "пустой статус означает pending")

	_, err = svc.ModerationQueue(context.Background(), "tok", "approved")
	assert.ErrorIs(t, err, ErrBadModerationStatus)
}

func TestRateFullness_Bounds(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("UpdateExpertRating", mock.Anything, "tok", int64(5), 4, "хорошо").Return(nil)

	svc := NewService(backend, nil)
	assert.ErrorIs(t, svc.RateFullness(context.Background(), "tok", 5, 0, ""), ErrBadRating)
	assert.ErrorIs(t, svc.RateFullness(context.Background(), "tok", 5, 6, ""), ErrBadRating)
	assert.NoError(t, svc.RateFullness(context.Background(), "tok", 5, 4, "хорошо"))
}

func TestAccrueBonus_ValidatesAmount(t *testing.T) {
	svc := NewService(&mockPlatform{}, nil)
	assert.ErrorIs(t, svc.AccrueBonus(context.Background(), "tok", 7, 0, ""), ErrBonusAmount)
}

func TestArchive_NotFoundMapped(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("ArchiveListing", mock.Anything, "tok", int64(404)).
		Return(&platform.APIError{Status: 404, Message: "missing"})

	svc := NewService(backend, nil)
	assert.ErrorIs(t, svc.Archive(context.Background(), "tok", 404), ErrNotFound)
}
