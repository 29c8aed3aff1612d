// Package device reads key events from a Linux evdev node such as
// /dev/input/event3.
package device

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/atikulmunna/sigma-input/internal/keycode"
	"github.com/atikulmunna/sigma-input/internal/model"
)

// Event types from linux/input-event-codes.h.
const (
	EvSyn uint16 = 0x00
	EvKey uint16 = 0x01
)

const (
	unknownName = "unknown"
	batchSize   = 64
)

var (
	// ErrOpen marks a device node that exists but cannot be used.
	ErrOpen = errors.New("device open failed")
	// ErrRead marks a device that stopped delivering events.
	ErrRead = errors.New("device read failed")
)

// OpenError carries the path and cause of a failed Open.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// RawEvent has the layout of the kernel's struct input_event.
type RawEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

var eventSize = binary.Size(RawEvent{})

// Timestamp returns the driver time of the event.
func (e RawEvent) Timestamp() time.Time {
	sec, nsec := e.Time.Unix()
	return time.Unix(sec, nsec)
}

// KeyEvent converts EV_KEY events; every other type reports false.
func (e RawEvent) KeyEvent() (model.KeyEvent, bool) {
	if e.Type != EvKey {
		return model.KeyEvent{}, false
	}
	return model.KeyEvent{Code: keycode.Code(e.Code), Value: model.KeyValue(e.Value)}, true
}

// Device is an open input device node. It is not safe for concurrent Poll calls.
type Device struct {
	path string
	name string
	f    *os.File
	buf  []byte
}

// Open acquires a read handle on the input device at path.
func Open(path string) (*Device, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if err := probe(f); err != nil {
		f.Close()
		return nil, &OpenError{Path: path, Err: fmt.Errorf("not an input device: %w", err)}
	}
	return newDevice(f, path, readName(f)), nil
}

func newDevice(f *os.File, path, name string) *Device {
	if name == "" {
		name = unknownName
	}
	return &Device{
		path: path,
		name: name,
		f:    f,
		buf:  make([]byte, batchSize*eventSize),
	}
}

// Path returns the node the device was opened from.
func (d *Device) Path() string {
	return d.path
}

// Name returns the driver-reported name, or "unknown".
func (d *Device) Name() string {
	return d.name
}

// Poll blocks until the driver delivers events and returns that whole batch
// in order. Cancelling ctx interrupts a pending read.
func (d *Device) Poll(ctx context.Context) ([]RawEvent, error) {
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	// A previous cancellation may have left a deadline behind.
	_ = d.f.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		_ = d.f.SetReadDeadline(time.Now())
	})
	n, err := d.f.Read(d.buf)
	stop()

	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, d.path, err)
	}
	return decode(d.buf[:n], d.path)
}

// Close releases the device handle.
func (d *Device) Close() error {
	return d.f.Close()
}

func decode(data []byte, path string) ([]RawEvent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s: empty read", ErrRead, path)
	}
	if len(data)%eventSize != 0 {
		return nil, fmt.Errorf("%w: %s: partial event in %d byte read", ErrRead, path, len(data))
	}
	events := make([]RawEvent, len(data)/eventSize)
	if err := binary.Read(bytes.NewReader(data), binary.NativeEndian, events); err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %v", ErrRead, path, err)
	}
	return events, nil
}
