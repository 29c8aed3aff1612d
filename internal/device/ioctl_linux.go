//go:build linux

package device

import (
	"os"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// _IOR('E', 0x01, int)
const evIOCGVersion = 0x80044501

// evIOCGName is _IOC(_IOC_READ, 'E', 0x06, length).
func evIOCGName(length int) uintptr {
	return uintptr(2)<<30 | uintptr(length)<<16 | uintptr('E')<<8 | 0x06
}

// probe checks that f answers the evdev version ioctl. SyscallConn keeps the
// descriptor in non-blocking mode so read deadlines keep working.
func probe(f *os.File) error {
	rc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var ioctlErr error
	if err := rc.Control(func(fd uintptr) {
		_, ioctlErr = unix.IoctlGetInt(int(fd), evIOCGVersion)
	}); err != nil {
		return err
	}
	return ioctlErr
}

func readName(f *os.File) string {
	rc, err := f.SyscallConn()
	if err != nil {
		return unknownName
	}
	buf := make([]byte, 256)
	var n uintptr
	var errno syscall.Errno
	if err := rc.Control(func(fd uintptr) {
		n, _, errno = unix.Syscall(unix.SYS_IOCTL, fd, evIOCGName(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	}); err != nil || errno != 0 || n == 0 {
		return unknownName
	}
	if int(n) > len(buf) {
		n = uintptr(len(buf))
	}
	name := strings.TrimRight(string(buf[:n]), "\x00")
	if name == "" {
		return unknownName
	}
	return name
}
