//go:build !linux

package device

import (
	"errors"
	"os"
)

func probe(*os.File) error {
	return errors.ErrUnsupported
}

func readName(*os.File) string {
	return unknownName
}
