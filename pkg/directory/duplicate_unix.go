//go:build linux || darwin

package directory

import "golang.org/x/sys/unix"

// duplicate returns a close-on-exec descriptor for the directory behind
// dirfd. Re-opening "." gives the new descriptor its own offset; when
// that is refused the descriptor is duplicated instead and shared reports
// true.
func duplicate(dirfd int) (fd int, shared bool, err error) {
	err = ignoringEINTR(func() error {
		var err error
		fd, err = unix.Openat(dirfd, ".", unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
		return err
	})
	if err == nil {
		return fd, false, nil
	}
	if exhausted(err) {
		return -1, false, newError(DuplicateFailure, err)
	}

	err = ignoringEINTR(func() error {
		var err error
		fd, err = unix.FcntlInt(uintptr(dirfd), unix.F_DUPFD_CLOEXEC, 0)
		return err
	})
	if err != nil {
		return -1, false, newError(DuplicateFailure, err)
	}
	return fd, true, nil
}

func exhausted(err error) bool {
	switch err {
	case unix.EMFILE, unix.ENFILE, unix.ENOMEM:
		return true
	}
	return false
}
