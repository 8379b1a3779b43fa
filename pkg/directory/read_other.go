//go:build !linux && !darwin

package directory

import "errors"

func (r *Reader) readNames(int) (*Listing, error) {
	return nil, newError(DuplicateFailure, errors.ErrUnsupported)
}

// StatAt is not supported on this platform.
func StatAt(int, string) (Metadata, error) {
	return Metadata{}, errors.ErrUnsupported
}
