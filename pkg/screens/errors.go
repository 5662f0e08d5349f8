package screens

import "errors"

// ErrBusy is returned while a save or delete of the same screen is in flight.
var ErrBusy = errors.New("a request is already in progress")

var (
	ErrNoForm          = errors.New("no form open")
	ErrNoSuchItem      = errors.New("no such record")
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	ErrNoImageField    = errors.New("records of this kind have no image")
)
