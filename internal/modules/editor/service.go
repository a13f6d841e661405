package editor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"hourlystay/internal/domain"
	"hourlystay/internal/modules/photo"
	"hourlystay/internal/platform"
)

// Platform is the slice of the backend client the editor needs.
type Platform interface {
	GetListing(ctx context.Context, token string, id int64) (*platform.Listing, error)
	CreateListing(ctx context.Context, token string, draft domain.ListingDraft) (*platform.Listing, error)
	UpdateListing(ctx context.Context, token string, id int64, draft domain.ListingDraft) (*platform.Listing, error)
	SubmitForModeration(ctx context.Context, token string, id int64) error
	Geocode(ctx context.Context, city, address string) (*platform.LatLng, error)
}

// Photos is the part of the photo pipeline the editor drives.
type Photos interface {
	UploadBatch(ctx context.Context, token string, gallery []string, files []photo.File) ([]string, error)
	Replace(ctx context.Context, token string, gallery []string, index int, f photo.File) ([]string, error)
	Upload(ctx context.Context, token string, f photo.File) (string, error)
}

// DraftStore persists editor drafts between sessions. Load returns (nil, nil)
// when no draft is stored.
type DraftStore interface {
	Save(ctx context.Context, ownerID, listingID int64, draft domain.ListingDraft) error
	Load(ctx context.Context, ownerID, listingID int64) (*domain.ListingDraft, error)
	Delete(ctx context.Context, ownerID, listingID int64) error
}

// Notifier pushes editor outcomes to connected dashboard clients.
type Notifier interface {
	Notify(ownerID int64, event string, payload interface{})
}

// Events pushed through the notifier.
const (
	EventRoomAutoAdded     = "room_auto_added"
	EventListingSaved      = "listing_saved"
	EventModerationQueued  = "moderation_queued"
	EventModerationSkipped = "moderation_submit_failed"
)

type sessionKey struct {
	ownerID   int64
	listingID int64 // 0 while the listing has never been persisted
}

// session is one open editor. Mutations lock it; the epoch lets a submit
// detect that the session was reopened or resubmitted while its network calls
// were in flight, so a stale outcome never touches fresh state.
type session struct {
	mu         sync.Mutex
	ed         *Editor
	epoch      uint64
	submitting bool
}

type Service struct {
	mu       sync.Mutex
	sessions map[sessionKey]*session

	backend  Platform
	photos   Photos
	store    DraftStore
	notifier Notifier
}

func NewService(backend Platform, photos Photos, store DraftStore, notifier Notifier) *Service {
	return &Service{
		sessions: make(map[sessionKey]*session),
		backend:  backend,
		photos:   photos,
		store:    store,
		notifier: notifier,
	}
}

func (s *Service) notify(ownerID int64, event string, payload interface{}) {
	if s.notifier != nil {
		s.notifier.Notify(ownerID, event, payload)
	}
}

// Open starts (or returns) the editor session for (owner, listing). An
// autosaved draft wins over the server copy so an interrupted session resumes
// where it left off; listing id 0 opens a blank draft for a new listing.
func (s *Service) Open(ctx context.Context, token string, ownerID, listingID int64) (*SessionState, error) {
	key := sessionKey{ownerID: ownerID, listingID: listingID}

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		sess.mu.Lock()
		defer sess.mu.Unlock()
		return snapshotState(sess.ed, listingID), nil
	}
	s.mu.Unlock()

	draft, err := s.seedDraft(ctx, token, ownerID, listingID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok { // проигрыш гонки за открытие
		return snapshotState(sess.ed, listingID), nil
	}
	sess := &session{ed: NewEditor(*draft)}
	s.sessions[key] = sess
	return snapshotState(sess.ed, listingID), nil
}

func (s *Service) seedDraft(ctx context.Context, token string, ownerID, listingID int64) (*domain.ListingDraft, error) {
	saved, err := s.store.Load(ctx, ownerID, listingID)
	if err != nil {
		log.Printf("level=warn msg=\"draft load failed\" owner_id=%d listing_id=%d err=%q", ownerID, listingID, err)
	}
	if saved != nil {
		return saved, nil
	}
	if listingID == 0 {
		d := domain.NewListingDraft()
		return &d, nil
	}
	listing, err := s.backend.GetListing(ctx, token, listingID)
	if err != nil {
		return nil, err
	}
	d := listing.ListingDraft.Clone()
	return &d, nil
}

func (s *Service) session(ownerID, listingID int64) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionKey{ownerID: ownerID, listingID: listingID}]
	if !ok {
		return nil, ErrSessionClosed
	}
	return sess, nil
}

func (s *Service) dropSession(ownerID, listingID int64) {
	s.mu.Lock()
	delete(s.sessions, sessionKey{ownerID: ownerID, listingID: listingID})
	s.mu.Unlock()
}

// mutate runs fn under the session lock and autosaves the draft afterwards.
// Autosave failures are logged, never surfaced: losing autosave must not
// block editing.
func (s *Service) mutate(ctx context.Context, ownerID, listingID int64, fn func(ed *Editor) error) (*SessionState, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := fn(sess.ed); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, ownerID, listingID, sess.ed.Draft); err != nil {
		log.Printf("level=warn msg=\"draft autosave failed\" owner_id=%d listing_id=%d err=%q", ownerID, listingID, err)
	}
	return snapshotState(sess.ed, listingID), nil
}

// State returns the current editor state without mutating anything.
func (s *Service) State(ownerID, listingID int64) (*SessionState, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return snapshotState(sess.ed, listingID), nil
}

// UpdateDraft merges the form's scalar fields into the draft. Rooms and
// coordinates are owned by their dedicated operations and never overwritten
// here.
func (s *Service) UpdateDraft(ctx context.Context, ownerID, listingID int64, req DraftFieldsRequest) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		req.applyTo(&ed.Draft)
		return nil
	})
}

func (s *Service) UpdateBuffer(ctx context.Context, ownerID, listingID int64, room domain.RoomCategory) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		ed.UpdateBuffer(room)
		return nil
	})
}

func (s *Service) ApplyTemplate(ctx context.Context, ownerID, listingID int64, name string) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.ApplyTemplate(name)
	})
}

func (s *Service) AddRoom(ctx context.Context, ownerID, listingID int64) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.AddRoom()
	})
}

func (s *Service) StartEditRoom(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.StartEditRoom(index)
	})
}

func (s *Service) SaveEditedRoom(ctx context.Context, ownerID, listingID int64) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.SaveEditedRoom()
	})
}

func (s *Service) CancelEditRoom(ctx context.Context, ownerID, listingID int64) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		ed.CancelEditRoom()
		return nil
	})
}

func (s *Service) RemoveRoom(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.RemoveRoom(index)
	})
}

func (s *Service) DuplicateRoom(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.DuplicateRoom(index)
	})
}

func (s *Service) ReorderRooms(ctx context.Context, ownerID, listingID int64, from, to int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		return ed.ReorderRooms(from, to)
	})
}

/* ---------- BUFFER PHOTOS ---------- */

// UploadBufferPhotos runs the photo pipeline for the room buffer. The upload
// happens outside the session lock; the gallery is re-read and swapped only
// if it did not change underneath the upload.
func (s *Service) UploadBufferPhotos(ctx context.Context, token string, ownerID, listingID int64, files []photo.File) (*SessionState, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	gallery := sess.ed.Buffer().Images
	sess.mu.Unlock()

	updated, err := s.photos.UploadBatch(ctx, token, gallery, files)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		ed.SetBufferImages(updated)
		return nil
	})
}

func (s *Service) ReplaceBufferPhoto(ctx context.Context, token string, ownerID, listingID int64, index int, f photo.File) (*SessionState, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	gallery := sess.ed.Buffer().Images
	sess.mu.Unlock()

	updated, err := s.photos.Replace(ctx, token, gallery, index, f)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		ed.SetBufferImages(updated)
		return nil
	})
}

// UploadCover replaces the listing's cover photo. Like the gallery ops, the
// upload runs outside the session lock and the draft changes only on success.
func (s *Service) UploadCover(ctx context.Context, token string, ownerID, listingID int64, f photo.File) (*SessionState, error) {
	return s.uploadSingle(ctx, token, ownerID, listingID, f, func(ed *Editor, url string) {
		ed.Draft.ImageURL = url
	})
}

// UploadLogo replaces the listing's logo image.
func (s *Service) UploadLogo(ctx context.Context, token string, ownerID, listingID int64, f photo.File) (*SessionState, error) {
	return s.uploadSingle(ctx, token, ownerID, listingID, f, func(ed *Editor, url string) {
		ed.Draft.LogoURL = url
	})
}

func (s *Service) uploadSingle(ctx context.Context, token string, ownerID, listingID int64, f photo.File, set func(ed *Editor, url string)) (*SessionState, error) {
	if _, err := s.session(ownerID, listingID); err != nil {
		return nil, err
	}
	url, err := s.photos.Upload(ctx, token, f)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		set(ed, url)
		return nil
	})
}

func (s *Service) RemoveBufferPhoto(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		updated, err := photo.Remove(ed.Buffer().Images, index)
		if err != nil {
			return err
		}
		ed.SetBufferImages(updated)
		return nil
	})
}

// DragBufferPhoto handles one drag-over event and returns the dragged
// photo's new index alongside the state.
func (s *Service) DragBufferPhoto(ctx context.Context, ownerID, listingID int64, dragIndex, overIndex int) (*SessionState, int, error) {
	newIndex := dragIndex
	state, err := s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		updated, idx, err := photo.DragOver(ed.Buffer().Images, dragIndex, overIndex)
		if err != nil {
			return err
		}
		ed.SetBufferImages(updated)
		newIndex = idx
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return state, newIndex, nil
}

/* ---------- LISTING GALLERY ---------- */

// UploadListingPhotos appends to the listing-level gallery. Same pipeline and
// the same ten-photo cap as the room buffer, applied to Draft.Images.
func (s *Service) UploadListingPhotos(ctx context.Context, token string, ownerID, listingID int64, files []photo.File) (*SessionState, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	gallery := append([]string(nil), sess.ed.Draft.Images...)
	sess.mu.Unlock()

	updated, err := s.photos.UploadBatch(ctx, token, gallery, files)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		ed.SetDraftImages(updated)
		return nil
	})
}

func (s *Service) RemoveListingPhoto(ctx context.Context, ownerID, listingID int64, index int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		updated, err := photo.Remove(ed.Draft.Images, index)
		if err != nil {
			return err
		}
		ed.SetDraftImages(updated)
		return nil
	})
}

func (s *Service) ReorderListingPhotos(ctx context.Context, ownerID, listingID int64, from, to int) (*SessionState, error) {
	return s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		updated, err := photo.Move(ed.Draft.Images, from, to)
		if err != nil {
			return err
		}
		ed.SetDraftImages(updated)
		return nil
	})
}

// DragListingPhoto mirrors DragBufferPhoto for the listing-level gallery.
func (s *Service) DragListingPhoto(ctx context.Context, ownerID, listingID int64, dragIndex, overIndex int) (*SessionState, int, error) {
	newIndex := dragIndex
	state, err := s.mutate(ctx, ownerID, listingID, func(ed *Editor) error {
		updated, idx, err := photo.DragOver(ed.Draft.Images, dragIndex, overIndex)
		if err != nil {
			return err
		}
		ed.SetDraftImages(updated)
		newIndex = idx
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return state, newIndex, nil
}

/* ---------- SUBMIT ---------- */

// SubmitResult is the outcome of a submit reconciliation.
type SubmitResult struct {
	Listing       *platform.Listing `json:"listing"`
	RoomAutoAdded bool              `json:"room_auto_added"`
	ModerationOK  bool              `json:"moderation_ok"`
}

// Submit runs the full save sequence: fold a valid uncommitted buffer into
// the outgoing snapshot, normalize its rooms, best-effort geocode,
// create-or-update, best-effort moderation submit, then close the session.
// The live session is not touched until the save succeeds, so a failed save
// leaves draft and buffer ready for a retry. A second submit while one is in
// flight is rejected; a stale submit (session reopened meanwhile) never
// touches the new session's state.
func (s *Service) Submit(ctx context.Context, token string, ownerID, listingID int64) (*SubmitResult, error) {
	sess, err := s.session(ownerID, listingID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.submitting {
		sess.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	sess.submitting = true
	sess.epoch++
	myEpoch := sess.epoch
	final, absorbed := sess.ed.FinalDraft()
	sess.mu.Unlock()

	// геокодирование необязательно: без координат тоже сохраняем
	if final.City != "" && final.Address != "" {
		if pt, err := s.backend.Geocode(ctx, final.City, final.Address); err != nil {
			log.Printf("level=warn msg=\"geocode failed\" city=%q err=%q", final.City, err)
		} else if pt != nil {
			final.Lat = &pt.Lat
			final.Lng = &pt.Lng
		}
	}

	var listing *platform.Listing
	if listingID > 0 {
		listing, err = s.backend.UpdateListing(ctx, token, listingID, final)
	} else {
		listing, err = s.backend.CreateListing(ctx, token, final)
	}
	if err != nil {
		sess.mu.Lock()
		sess.submitting = false
		sess.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	result := &SubmitResult{Listing: listing, RoomAutoAdded: absorbed, ModerationOK: true}
	if absorbed {
		s.notify(ownerID, EventRoomAutoAdded, map[string]interface{}{"listing_id": listing.ID})
	}
	if err := s.backend.SubmitForModeration(ctx, token, listing.ID); err != nil {
		result.ModerationOK = false
		log.Printf("level=warn msg=\"moderation submit failed\" listing_id=%d err=%q", listing.ID, err)
		s.notify(ownerID, EventModerationSkipped, map[string]interface{}{"listing_id": listing.ID})
	} else {
		s.notify(ownerID, EventModerationQueued, map[string]interface{}{"listing_id": listing.ID})
	}
	s.notify(ownerID, EventListingSaved, map[string]interface{}{"listing_id": listing.ID})

	sess.mu.Lock()
	stale := sess.epoch != myEpoch
	sess.submitting = false
	sess.mu.Unlock()

	if !stale {
		s.dropSession(ownerID, listingID)
		if err := s.store.Delete(ctx, ownerID, listingID); err != nil {
			log.Printf("level=warn msg=\"draft delete failed\" owner_id=%d listing_id=%d err=%q", ownerID, listingID, err)
		}
	}
	return result, nil
}

// Close discards the in-memory session. The autosaved draft is kept unless
// discard is set, so a closed tab can still resume.
func (s *Service) Close(ctx context.Context, ownerID, listingID int64, discard bool) error {
	sess, err := s.session(ownerID, listingID)
	if err != nil && !errors.Is(err, ErrSessionClosed) {
		return err
	}
	if sess != nil {
		sess.mu.Lock()
		sess.epoch++ // просроченные ответы больше не закроют сессию
		sess.mu.Unlock()
	}
	s.dropSession(ownerID, listingID)

	if discard {
		if err := s.store.Delete(ctx, ownerID, listingID); err != nil {
			log.Printf("level=warn msg=\"draft delete failed\" owner_id=%d listing_id=%d err=%q", ownerID, listingID, err)
		}
	}
	return nil
}
