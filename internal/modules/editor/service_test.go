package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hourlystay/internal/domain"
	"hourlystay/internal/modules/photo"
	"hourlystay/internal/platform"
)

type mockPlatform struct {
	mock.Mock
}

func (m *mockPlatform) GetListing(ctx context.Context, token string, id int64) (*platform.Listing, error) {
	args := m.Called(ctx, token, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Listing), args.Error(1)
}

func (m *mockPlatform) CreateListing(ctx context.Context, token string, draft domain.ListingDraft) (*platform.Listing, error) {
	args := m.Called(ctx, token, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Listing), args.Error(1)
}

func (m *mockPlatform) UpdateListing(ctx context.Context, token string, id int64, draft domain.ListingDraft) (*platform.Listing, error) {
	args := m.Called(ctx, token, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.Listing), args.Error(1)
}

func (m *mockPlatform) SubmitForModeration(ctx context.Context, token string, id int64) error {
	return m.Called(ctx, token, id).Error(0)
}

func (m *mockPlatform) Geocode(ctx context.Context, city, address string) (*platform.LatLng, error) {
	args := m.Called(ctx, city, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*platform.LatLng), args.Error(1)
}

// memStore keeps drafts in a map so tests can inspect autosave behaviour.
type memStore struct {
	mu     sync.Mutex
	drafts map[[2]int64]domain.ListingDraft
	saves  int
}

func newMemStore() *memStore {
	return &memStore{drafts: make(map[[2]int64]domain.ListingDraft)}
}

func (s *memStore) Save(_ context.Context, ownerID, listingID int64, draft domain.ListingDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[[2]int64{ownerID, listingID}] = draft.Clone()
	s.saves++
	return nil
}

func (s *memStore) Load(_ context.Context, ownerID, listingID int64) (*domain.ListingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[[2]int64{ownerID, listingID}]
	if !ok {
		return nil, nil
	}
	cp := d.Clone()
	return &cp, nil
}

func (s *memStore) Delete(_ context.Context, ownerID, listingID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, [2]int64{ownerID, listingID})
	return nil
}

type memNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *memNotifier) Notify(_ int64, event string, _ interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *memNotifier) has(event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e == event {
			return true
		}
	}
	return false
}

type stubPhotos struct{}

func (stubPhotos) UploadBatch(_ context.Context, _ string, gallery []string, files []photo.File) ([]string, error) {
	out := append([]string(nil), gallery...)
	for range files {
		out = append(out, fmt.Sprintf("https://cdn.example.com/new-%d.jpg", len(out)))
	}
	return out, nil
}

func (stubPhotos) Replace(_ context.Context, _ string, gallery []string, index int, _ photo.File) ([]string, error) {
	out := append([]string(nil), gallery...)
	out[index] = "https://cdn.example.com/replaced.jpg"
	return out, nil
}

func (stubPhotos) Upload(_ context.Context, _ string, _ photo.File) (string, error) {
	return "https://cdn.example.com/single.jpg", nil
}

func newTestService(backend Platform) (*Service, *memStore, *memNotifier) {
	store := newMemStore()
	notifier := &memNotifier{}
	return NewService(backend, stubPhotos{}, store, notifier), store, notifier
}

func persisted(id int64, draft domain.ListingDraft) *platform.Listing {
	l := &platform.Listing{ListingDraft: draft.Clone()}
	l.ID = id
	l.ModerationStatus = platform.ModerationPending
	return l
}

func TestOpen_NewListingSeedsDefaults(t *testing.T) {
	svc, _, _ := newTestService(&mockPlatform{})

	state, err := svc.Open(context.Background(), "tok", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "hotel", state.Draft.Type)
	assert.Equal(t, 999, state.Draft.Auction)
	assert.Equal(t, "closed", state.BufferMode)
}

func TestOpen_ExistingListingLoadedFromPlatform(t *testing.T) {
	backend := &mockPlatform{}
	draft := domain.NewListingDraft()
	draft.ID = 5
	draft.Title = "Отель Уют"
	backend.On("GetListing", mock.Anything, "tok", int64(5)).Return(persisted(5, draft), nil)

	svc, _, _ := newTestService(backend)
	state, err := svc.Open(context.Background(), "tok", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "Отель Уют", state.Draft.Title)
	backend.AssertExpectations(t)
}

func TestOpen_AutosavedDraftWinsOverServer(t *testing.T) {
	backend := &mockPlatform{}
	svc, store, _ := newTestService(backend)

	saved := domain.NewListingDraft()
	saved.ID = 5
	saved.Title = "незавершённая правка"
	require.NoError(t, store.Save(context.Background(), 1, 5, saved))

	state, err := svc.Open(context.Background(), "tok", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, "незавершённая правка", state.Draft.Title)
	backend.AssertNotCalled(t, "GetListing", mock.Anything, mock.Anything, mock.Anything)
}

func TestMutations_Autosave(t *testing.T) {
	svc, store, _ := newTestService(&mockPlatform{})
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	room := domain.EmptyRoomBuffer()
	room.Type = "Стандарт"
	room.Price = 1000
	_, err = svc.UpdateBuffer(ctx, 1, 0, room)
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, 1, 0)
	require.NoError(t, err)

	saved, err := store.Load(ctx, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Len(t, saved.Rooms, 1)
	assert.Equal(t, "Стандарт", saved.Rooms[0].Type)
}

func TestSubmit_AutoAbsorbsFilledBuffer(t *testing.T) {
	// сценарий: rooms=[], буфер заполнен, «Добавить» не нажали
	backend := &mockPlatform{}
	var sent domain.ListingDraft
	backend.On("CreateListing", mock.Anything, "tok", mock.MatchedBy(func(d domain.ListingDraft) bool {
		sent = d
		return true
	})).Return(persisted(42, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(42)).Return(nil)

	svc, store, notifier := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	room := domain.EmptyRoomBuffer()
	room.Type = "Стандарт"
	room.Price = 1000
	_, err = svc.UpdateBuffer(ctx, 1, 0, room)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, "tok", 1, 0)
	require.NoError(t, err)
	assert.True(t, result.RoomAutoAdded)
	assert.True(t, result.ModerationOK)
	assert.Equal(t, int64(42), result.Listing.ID)

	require.Len(t, sent.Rooms, 1)
	assert.Equal(t, "Стандарт", sent.Rooms[0].Type)
	assert.Equal(t, 1000.0, sent.Rooms[0].Price)
	assert.Equal(t, domain.DefaultPaymentMethods, sent.Rooms[0].PaymentMethods)

	assert.True(t, notifier.has(EventRoomAutoAdded))
	assert.True(t, notifier.has(EventModerationQueued))

	// сессия и черновик закрыты
	saved, err := store.Load(ctx, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, saved)
	_, err = svc.State(1, 0)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSubmit_GeocodeMergedWhenResolved(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("Geocode", mock.Anything, "Москва", "Арбат 1").
		Return(&platform.LatLng{Lat: 55.75, Lng: 37.61}, nil)
	var sent domain.ListingDraft
	backend.On("CreateListing", mock.Anything, "tok", mock.MatchedBy(func(d domain.ListingDraft) bool {
		sent = d
		return true
	})).Return(persisted(7, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(7)).Return(nil)

	svc, _, _ := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	city, addr := "Москва", "Арбат 1"
	_, err = svc.UpdateDraft(ctx, 1, 0, DraftFieldsRequest{City: &city, Address: &addr})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tok", 1, 0)
	require.NoError(t, err)
	require.NotNil(t, sent.Lat)
	assert.Equal(t, 55.75, *sent.Lat)
}

func TestSubmit_GeocodeFailureNonFatal(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("Geocode", mock.Anything, "Москва", "Арбат 1").
		Return(nil, errors.New("geocoder down"))
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Return(persisted(7, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(7)).Return(nil)

	svc, _, _ := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	city, addr := "Москва", "Арбат 1"
	_, err = svc.UpdateDraft(ctx, 1, 0, DraftFieldsRequest{City: &city, Address: &addr})
	require.NoError(t, err)

	result, err := svc.Submit(ctx, "tok", 1, 0)
	require.NoError(t, err)
	assert.Nil(t, result.Listing.Lat)
}

func TestSubmit_CreateFailureAbortsAndKeepsSession(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Return(nil, errors.New("HTTP 500"))

	svc, store, _ := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)
	title := "Отель"
	_, err = svc.UpdateDraft(ctx, 1, 0, DraftFieldsRequest{Title: &title})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tok", 1, 0)
	assert.ErrorIs(t, err, ErrSaveFailed)
	backend.AssertNotCalled(t, "SubmitForModeration", mock.Anything, mock.Anything, mock.Anything)

	// сессия жива, можно исправить и повторить
	state, err := svc.State(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Отель", state.Draft.Title)
	saved, err := store.Load(ctx, 1, 0)
	require.NoError(t, err)
	assert.NotNil(t, saved)
}

func TestSubmit_CreateFailureKeepsBuffer(t *testing.T) {
	// сценарий: буфер заполнен, бэкенд падает — форма не должна очиститься
	backend := &mockPlatform{}
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Return(nil, errors.New("HTTP 500"))

	svc, _, notifier := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	room := domain.EmptyRoomBuffer()
	room.Type = "Стандарт"
	room.Price = 1000
	_, err = svc.UpdateBuffer(ctx, 1, 0, room)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tok", 1, 0)
	assert.ErrorIs(t, err, ErrSaveFailed)

	state, err := svc.State(1, 0)
	require.NoError(t, err)
	assert.Equal(t, "creating", state.BufferMode)
	assert.Equal(t, "Стандарт", state.Buffer.Type)
	assert.Equal(t, 1000.0, state.Buffer.Price)
	assert.Len(t, state.Draft.Rooms, 0, "номер не фиксируется в черновике до успешного сохранения")
	assert.False(t, notifier.has(EventRoomAutoAdded), "уведомление только после сохранения")

	// повтор после восстановления бэкенда досылает тот же номер
	backend.ExpectedCalls = nil
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Return(persisted(11, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(11)).Return(nil)

	result, err := svc.Submit(ctx, "tok", 1, 0)
	require.NoError(t, err)
	assert.True(t, result.RoomAutoAdded)
	assert.True(t, notifier.has(EventRoomAutoAdded))
}

func TestSubmit_ModerationFailureBestEffort(t *testing.T) {
	backend := &mockPlatform{}
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Return(persisted(9, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(9)).
		Return(errors.New("moderation queue down"))

	svc, _, notifier := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	result, err := svc.Submit(ctx, "tok", 1, 0)
	require.NoError(t, err, "падение модерации не откатывает сохранение")
	assert.False(t, result.ModerationOK)
	assert.Equal(t, int64(9), result.Listing.ID)
	assert.True(t, notifier.has(EventModerationSkipped))

	// сессия всё равно закрыта
	_, err = svc.State(1, 0)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSubmit_UpdatesExistingListing(t *testing.T) {
	backend := &mockPlatform{}
	draft := domain.NewListingDraft()
	draft.ID = 5
	backend.On("GetListing", mock.Anything, "tok", int64(5)).Return(persisted(5, draft), nil)
	backend.On("UpdateListing", mock.Anything, "tok", int64(5), mock.Anything).
		Return(persisted(5, draft), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(5)).Return(nil)

	svc, _, _ := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 5)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "tok", 1, 5)
	require.NoError(t, err)
	backend.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything, mock.Anything)
	backend.AssertExpectations(t)
}

func TestSubmit_DoubleSubmitBlocked(t *testing.T) {
	backend := &mockPlatform{}
	release := make(chan struct{})
	started := make(chan struct{})
	backend.On("CreateListing", mock.Anything, "tok", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(persisted(3, domain.NewListingDraft()), nil)
	backend.On("SubmitForModeration", mock.Anything, "tok", int64(3)).Return(nil)

	svc, _, _ := newTestService(backend)
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Submit(ctx, "tok", 1, 0)
		done <- err
	}()
	<-started

	_, err = svc.Submit(ctx, "tok", 1, 0)
	assert.ErrorIs(t, err, ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
}

func TestUploadBufferPhotos_FlowsIntoBuffer(t *testing.T) {
	svc, _, _ := newTestService(&mockPlatform{})
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	state, err := svc.UploadBufferPhotos(ctx, "tok", 1, 0, []photo.File{{Data: []byte{1}}})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/new-0.jpg"}, state.Buffer.Images)
	assert.Equal(t, "creating", state.BufferMode)
}

func TestListingGallery_UploadRemoveReorderDrag(t *testing.T) {
	svc, store, _ := newTestService(&mockPlatform{})
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	state, err := svc.UploadListingPhotos(ctx, "tok", 1, 0, []photo.File{
		{Data: []byte{1}}, {Data: []byte{2}}, {Data: []byte{3}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/new-0.jpg",
		"https://cdn.example.com/new-1.jpg",
		"https://cdn.example.com/new-2.jpg",
	}, state.Draft.Images)
	assert.Equal(t, "closed", state.BufferMode, "галерея объекта не трогает буфер номера")

	state, err = svc.ReorderListingPhotos(ctx, 1, 0, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/new-1.jpg",
		"https://cdn.example.com/new-2.jpg",
		"https://cdn.example.com/new-0.jpg",
	}, state.Draft.Images)

	state, newIndex, err := svc.DragListingPhoto(ctx, 1, 0, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, newIndex)
	assert.Equal(t, "https://cdn.example.com/new-0.jpg", state.Draft.Images[0])

	state, err = svc.RemoveListingPhoto(ctx, 1, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://cdn.example.com/new-1.jpg",
		"https://cdn.example.com/new-2.jpg",
	}, state.Draft.Images)

	// галерея автосохраняется вместе с остальным черновиком
	saved, err := store.Load(ctx, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, state.Draft.Images, saved.Images)

	_, err = svc.RemoveListingPhoto(ctx, 1, 0, 5)
	assert.ErrorIs(t, err, photo.ErrIndexRange)
}

func TestUploadCoverAndLogo_SetDraftFields(t *testing.T) {
	svc, _, _ := newTestService(&mockPlatform{})
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)

	state, err := svc.UploadCover(ctx, "tok", 1, 0, photo.File{Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/single.jpg", state.Draft.ImageURL)
	assert.Empty(t, state.Draft.LogoURL)

	state, err = svc.UploadLogo(ctx, "tok", 1, 0, photo.File{Data: []byte{1}})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/single.jpg", state.Draft.LogoURL)

	_, err = svc.UploadLogo(ctx, "tok", 2, 0, photo.File{Data: []byte{1}})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestClose_KeepsDraftUnlessDiscarded(t *testing.T) {
	svc, store, _ := newTestService(&mockPlatform{})
	ctx := context.Background()
	_, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)
	title := "Отель"
	_, err = svc.UpdateDraft(ctx, 1, 0, DraftFieldsRequest{Title: &title})
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, 1, 0, false))
	saved, err := store.Load(ctx, 1, 0)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Отель", saved.Title)

	// повторное открытие продолжает с черновика
	state, err := svc.Open(ctx, "tok", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, "Отель", state.Draft.Title)

	require.NoError(t, svc.Close(ctx, 1, 0, true))
	saved, err = store.Load(ctx, 1, 0)
	require.NoError(t, err)
	assert.Nil(t, saved)
}
