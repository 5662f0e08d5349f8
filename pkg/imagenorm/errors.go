package imagenorm

import "errors"

// ErrImageRead is returned when the input cannot be read or is not an image at all.
var ErrImageRead = errors.New("image could not be read")

// ErrImageDecode is returned when the input looks like an image but bitmap decoding fails.
var ErrImageDecode = errors.New("image could not be decoded")
