package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/atikulmunna/sigma-input/internal/device"
)

var (
	// ErrUsage marks a bad invocation (wrong argument count, unknown flag).
	ErrUsage = errors.New("usage error")
	// ErrDeviceMissing marks a device path that does not exist.
	ErrDeviceMissing = errors.New("device does not exist")
)

type usageError struct {
	reason string
}

func (e *usageError) Error() string { return e.reason }

func (e *usageError) Is(target error) bool { return target == ErrUsage }

type missingError struct {
	path string
}

func (e *missingError) Error() string {
	return fmt.Sprintf("Device %s does not exist.", e.path)
}

func (e *missingError) Is(target error) bool { return target == ErrDeviceMissing }

// fatalError pairs the one-line message shown to the user with its cause.
type fatalError struct {
	msg string
	err error
}

func (e *fatalError) Error() string { return e.msg }

func (e *fatalError) Unwrap() error { return e.err }

func openFailure(path string, err error) error {
	cause := err
	var oe *device.OpenError
	if errors.As(err, &oe) {
		cause = oe.Err
	}
	return &fatalError{
		msg: fmt.Sprintf("Failed to open %s: %v. Are you root or have device access?", path, cause),
		err: err,
	}
}

func usageText(bin string) string {
	return fmt.Sprintf("Usage: %s /dev/input/eventN <log file>\n"+
		"Find the correct device with `sudo evtest`, `cat /proc/bus/input/devices` or `%s devices`.\n", bin, bin)
}

// report writes the user-facing diagnostic for a fatal error.
func report(w io.Writer, bin string, err error) {
	if errors.Is(err, ErrUsage) {
		fmt.Fprintf(w, "%s: %v\n", bin, err)
		fmt.Fprint(w, usageText(bin))
		return
	}
	fmt.Fprintln(w, err)
}
