// Package screens holds the state of the interactive front-end: one Screen per
// resource kind, plus the quiz and the timeline. Screens talk to the service
// through a Backend and re-fetch instead of sharing records with each other.
package screens

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"memories/models"
	"memories/pkg/imagenorm"
)

// Phase is the form lifecycle of a Screen.
type Phase int

const (
	Idle Phase = iota
	FormOpen
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case FormOpen:
		return "form-open"
	case Submitting:
		return "submitting"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Keyed is satisfied by every stored record.
type Keyed interface {
	Key() uint
}

// Backend is what a Screen needs from the service.
type Backend[T any, P models.Patch[T]] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, p P) (T, error)
	Update(ctx context.Context, id uint, p P) (T, error)
	Delete(ctx context.Context, id uint) error
}

// User-visible status messages.
const (
	MsgSaved      = "Salvo!"
	MsgDeleted    = "Excluído."
	MsgSaveFailed = "Erro ao salvar. Verifique se o servidor está rodando."
	MsgLoadFailed = "Erro ao carregar. Servidor conectou?"
	MsgDeleteFail = "Erro ao excluir."
)

// Screen is the list-plus-form state of one resource kind. It is safe for
// concurrent use, but only one save or delete runs at a time.
type Screen[T Keyed, P models.Patch[T]] struct {
	backend Backend[T, P]
	fill    func(T) P

	mu            sync.Mutex
	records       []T
	phase         Phase
	form          P
	editing       uint
	imagePath     string
	pendingDelete uint
	busy          bool
	message       string
}

// NewScreen builds a screen. fill turns a stored record into the form used to edit it.
func NewScreen[T Keyed, P models.Patch[T]](backend Backend[T, P], fill func(T) P) *Screen[T, P] {
	return &Screen[T, P]{backend: backend, fill: fill}
}

// Load replaces the cached records with a fresh list. On failure the cache is kept.
func (s *Screen[T, P]) Load(ctx context.Context) error {
	items, err := s.backend.List(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.message = MsgLoadFailed
		return err
	}
	s.records = items
	return nil
}

// OpenNew opens an empty form for a new record.
func (s *Screen[T, P]) OpenNew() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	var zero P
	s.form, s.editing, s.imagePath, s.phase, s.message = zero, 0, "", FormOpen, ""
	return nil
}

// OpenEdit opens the form pre-filled with record id. The image is left out so an
// untouched edit keeps the stored one.
func (s *Screen[T, P]) OpenEdit(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrBusy
	}
	i := s.index(id)
	if i < 0 {
		return ErrNoSuchItem
	}
	s.form, s.editing, s.imagePath, s.phase, s.message = s.fill(s.records[i]), id, "", FormOpen, ""
	return nil
}

// Edit mutates the open form.
func (s *Screen[T, P]) Edit(fn func(form *P)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != FormOpen {
		return ErrNoForm
	}
	fn(&s.form)
	return nil
}

// AttachImage selects a local image file; it is normalized on Submit.
func (s *Screen[T, P]) AttachImage(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != FormOpen {
		return ErrNoForm
	}
	if _, ok := any(&s.form).(models.ImageCarrier); !ok {
		return ErrNoImageField
	}
	s.imagePath = path
	return nil
}

// Cancel closes the form without saving.
func (s *Screen[T, P]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == FormOpen {
		var zero P
		s.form, s.editing, s.imagePath, s.phase = zero, 0, "", Idle
	}
}

// Submit saves the open form. Validation and image errors keep the form open and
// never reach the backend. A backend failure returns the screen to Idle with a
// message and the cached list untouched; success clears the form and re-fetches.
func (s *Screen[T, P]) Submit(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.phase != FormOpen {
		s.mu.Unlock()
		return ErrNoForm
	}
	creating := s.editing == 0
	if err := s.form.Validate(creating); err != nil {
		s.message = err.Error()
		s.mu.Unlock()
		return err
	}
	form, id, path := s.form, s.editing, s.imagePath
	s.phase, s.busy, s.message = Submitting, true, ""
	s.mu.Unlock()

	err := s.attach(&form, path)
	if err != nil {
		s.mu.Lock()
		s.phase, s.busy, s.message = FormOpen, false, err.Error()
		s.mu.Unlock()
		return err
	}
	if creating {
		_, err = s.backend.Create(ctx, form)
	} else {
		_, err = s.backend.Update(ctx, id, form)
	}

	s.mu.Lock()
	s.busy = false
	if err != nil {
		s.phase, s.message = Idle, MsgSaveFailed
		s.mu.Unlock()
		return err
	}
	var zero P
	s.form, s.editing, s.imagePath, s.phase, s.message = zero, 0, "", Idle, MsgSaved
	s.mu.Unlock()
	return s.Load(ctx)
}

func (s *Screen[T, P]) attach(form *P, path string) error {
	if path == "" {
		return nil
	}
	carrier, ok := any(form).(models.ImageCarrier)
	if !ok {
		return ErrNoImageField
	}
	dataURL, err := imagenorm.NormalizeFile(path)
	if err != nil {
		return err
	}
	carrier.SetImage(dataURL)
	return nil
}

// RequestDelete marks id for deletion. Nothing is sent until ConfirmDelete.
func (s *Screen[T, P]) RequestDelete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index(id) < 0 {
		return ErrNoSuchItem
	}
	s.pendingDelete = id
	return nil
}

// CancelDelete drops a pending delete request.
func (s *Screen[T, P]) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = 0
	s.mu.Unlock()
}

// ConfirmDelete deletes the record chosen with RequestDelete and drops it from the cache.
func (s *Screen[T, P]) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	id := s.pendingDelete
	if id == 0 {
		s.mu.Unlock()
		return ErrNoPendingDelete
	}
	s.busy = true
	s.mu.Unlock()

	err := s.backend.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy, s.pendingDelete = false, 0
	if err != nil {
		s.message = MsgDeleteFail
		return err
	}
	s.records = slices.DeleteFunc(s.records, func(r T) bool { return r.Key() == id })
	s.message = MsgDeleted
	return nil
}

// Records returns a copy of the cached list.
func (s *Screen[T, P]) Records() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.records)
}

func (s *Screen[T, P]) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Screen[T, P]) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Form returns the open form and the id being edited (0 for a new record).
func (s *Screen[T, P]) Form() (P, uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form, s.editing
}

// PendingDelete returns the id awaiting confirmation, or 0.
func (s *Screen[T, P]) PendingDelete() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingDelete
}

func (s *Screen[T, P]) index(id uint) int {
	return slices.IndexFunc(s.records, func(r T) bool { return r.Key() == id })
}
