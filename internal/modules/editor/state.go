package editor

import (
	"hourlystay/internal/domain"
)

// BufferMode tags the state of the single room buffer. Representing it as a
// variant instead of a nullable index removes the stale-index hazard after a
// room removal.
type BufferMode int

const (
	// BufferClosed: no room is being created or edited, buffer holds defaults.
	BufferClosed BufferMode = iota
	// BufferCreating: the buffer accumulates a fresh room not yet in Rooms.
	BufferCreating
	// BufferEditing: the buffer is an in-place edit of Rooms[editIndex].
	BufferEditing
)

// Editor owns one listing draft and the single room buffer. All methods are
// plain state transitions with no I/O; the service serializes access per
// session.
type Editor struct {
	Draft domain.ListingDraft

	mode      BufferMode
	editIndex int
	buffer    domain.RoomCategory
}

func NewEditor(draft domain.ListingDraft) *Editor {
	return &Editor{
		Draft:  draft,
		mode:   BufferClosed,
		buffer: domain.EmptyRoomBuffer(),
	}
}

// Buffer returns a copy of the current buffer contents.
func (e *Editor) Buffer() domain.RoomCategory {
	return e.buffer.Clone()
}

// Mode returns the buffer mode and, when editing, the room index it edits.
func (e *Editor) Mode() (BufferMode, int) {
	if e.mode == BufferEditing {
		return e.mode, e.editIndex
	}
	return e.mode, -1
}

func (e *Editor) resetBuffer() {
	e.buffer = domain.EmptyRoomBuffer()
	e.mode = BufferClosed
	e.editIndex = 0
}

// UpdateBuffer replaces the buffer contents with the supplied room. A closed
// buffer moves to Creating; an editing buffer stays pinned to its room.
func (e *Editor) UpdateBuffer(room domain.RoomCategory) {
	e.buffer = room.Clone()
	if e.mode == BufferClosed {
		e.mode = BufferCreating
	}
}

// StartEditRoom copies Rooms[index] into the buffer for in-place editing.
// Whatever the buffer held before is discarded.
func (e *Editor) StartEditRoom(index int) error {
	if index < 0 || index >= len(e.Draft.Rooms) {
		return ErrIndexRange
	}
	e.buffer = e.Draft.Rooms[index].Normalized()
	e.mode = BufferEditing
	e.editIndex = index
	return nil
}

// SaveEditedRoom writes the buffer back over the room it edits. Rejected
// without any state change when the buffer fails validation.
func (e *Editor) SaveEditedRoom() error {
	if e.mode != BufferEditing {
		return ErrNotEditing
	}
	if !e.buffer.Valid() {
		return ErrRoomInvalid
	}
	e.Draft.Rooms[e.editIndex] = e.buffer.Normalized()
	e.resetBuffer()
	return nil
}

// CancelEditRoom discards the buffer, unsaved edits included.
func (e *Editor) CancelEditRoom() {
	e.resetBuffer()
}

// AddRoom appends a normalized copy of the buffer and resets it. The buffer
// is left untouched when validation fails so the user can correct it.
func (e *Editor) AddRoom() error {
	if e.mode == BufferEditing {
		return ErrNotEditing
	}
	if !e.buffer.Valid() {
		return ErrRoomInvalid
	}
	e.Draft.Rooms = append(e.Draft.Rooms, e.buffer.Normalized())
	e.resetBuffer()
	return nil
}

// RemoveRoom deletes Rooms[index]. Removing the room open for editing closes
// the buffer and discards its edits; removing an earlier room shifts the
// editing index down so the buffer keeps pointing at the same room.
func (e *Editor) RemoveRoom(index int) error {
	if index < 0 || index >= len(e.Draft.Rooms) {
		return ErrIndexRange
	}
	e.Draft.Rooms = append(e.Draft.Rooms[:index], e.Draft.Rooms[index+1:]...)

	if e.mode == BufferEditing {
		switch {
		case e.editIndex == index:
			e.resetBuffer()
		case e.editIndex > index:
			e.editIndex--
		}
	}
	return nil
}

// DuplicateRoom inserts a copy of Rooms[index] right after it, its type
// suffixed, without opening it for editing.
func (e *Editor) DuplicateRoom(index int) error {
	if index < 0 || index >= len(e.Draft.Rooms) {
		return ErrIndexRange
	}
	dup := e.Draft.Rooms[index].Clone()
	dup.Type += domain.CopySuffix

	rooms := append(e.Draft.Rooms[:index+1:index+1], dup)
	e.Draft.Rooms = append(rooms, e.Draft.Rooms[index+1:]...)

	if e.mode == BufferEditing && e.editIndex > index {
		e.editIndex++
	}
	return nil
}

// ReorderRooms moves the room at from to position to, shifting the rooms in
// between (array move, not swap).
func (e *Editor) ReorderRooms(from, to int) error {
	n := len(e.Draft.Rooms)
	if from < 0 || from >= n || to < 0 || to >= n {
		return ErrIndexRange
	}
	if from == to {
		return nil
	}
	rooms := e.Draft.Rooms
	moved := rooms[from]
	rooms = append(rooms[:from], rooms[from+1:]...)
	rooms = append(rooms[:to], append([]domain.RoomCategory{moved}, rooms[to:]...)...)
	e.Draft.Rooms = rooms

	if e.mode == BufferEditing {
		e.editIndex = moveIndex(e.editIndex, from, to)
	}
	return nil
}

// moveIndex tracks where a watched index lands after an array move.
func moveIndex(watched, from, to int) int {
	switch {
	case watched == from:
		return to
	case from < watched && watched <= to:
		return watched - 1
	case to <= watched && watched < from:
		return watched + 1
	default:
		return watched
	}
}

// ApplyTemplate bulk-populates the buffer from a named preset: type,
// description, square meters and features are overwritten (features replaced,
// not merged); price, photos, min hours and payment/cancellation text stay.
func (e *Editor) ApplyTemplate(name string) error {
	tpl, ok := domain.TemplateByName(name)
	if !ok {
		return ErrUnknownTemplate
	}
	e.buffer.Type = tpl.Name
	e.buffer.Description = tpl.Description
	e.buffer.SquareMeters = tpl.SquareMeters
	e.buffer.Features = append([]string{}, tpl.Features...)
	if e.mode == BufferClosed {
		e.mode = BufferCreating
	}
	return nil
}

// SetBufferImages swaps the buffer's photo gallery (used by the photo
// pipeline after a successful upload/reorder).
func (e *Editor) SetBufferImages(images []string) {
	e.buffer.Images = append([]string{}, images...)
	if e.mode == BufferClosed {
		e.mode = BufferCreating
	}
}

// SetDraftImages swaps the listing-level photo gallery (the photos of the
// object itself, separate from per-room galleries).
func (e *Editor) SetDraftImages(images []string) {
	e.Draft.Images = append([]string{}, images...)
}

// FinalDraft builds the outgoing submit snapshot: a normalized clone of the
// draft with a valid, uncommitted buffer folded in, so a filled "add room"
// form is never silently dropped. A Creating buffer is appended; an Editing
// buffer overwrites its room. The live draft and buffer stay untouched: a
// failed save must leave the session exactly as it was. The bool reports
// whether the buffer was folded in.
func (e *Editor) FinalDraft() (domain.ListingDraft, bool) {
	out := e.Draft.Clone()
	absorbed := false
	if e.buffer.Valid() {
		switch e.mode {
		case BufferCreating:
			out.Rooms = append(out.Rooms, e.buffer.Normalized())
			absorbed = true
		case BufferEditing:
			out.Rooms[e.editIndex] = e.buffer.Normalized()
			absorbed = true
		}
	}
	for i, r := range out.Rooms {
		out.Rooms[i] = r.Normalized()
	}
	return out, absorbed
}
