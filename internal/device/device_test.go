package device

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/atikulmunna/sigma-input/internal/keycode"
	"github.com/atikulmunna/sigma-input/internal/model"
)

func encode(t *testing.T, events ...RawEvent) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, events); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func keyEv(code keycode.Code, v model.KeyValue) RawEvent {
	return RawEvent{Type: EvKey, Code: uint16(code), Value: int32(v)}
}

func synEv() RawEvent {
	return RawEvent{Type: EvSyn}
}

func pipeDevice(t *testing.T) (*Device, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})
	return newDevice(r, "/dev/input/event-test", ""), w
}

func TestPollReturnsBatchInOrder(t *testing.T) {
	dev, w := pipeDevice(t)
	if dev.Name() != "unknown" {
		t.Errorf("expected placeholder name, got %q", dev.Name())
	}

	batch := []RawEvent{
		keyEv(keycode.KEY_LEFTALT, model.Pressed),
		synEv(),
		keyEv(keycode.KEY_A, model.Pressed),
		synEv(),
	}
	if _, err := w.Write(encode(t, batch...)); err != nil {
		t.Fatal(err)
	}

	got, err := dev.Poll(context.Background())
	if err != nil {
		t.Fatalf("poll: %v", err)
	}
	if len(got) != len(batch) {
		t.Fatalf("expected %d events, got %d", len(batch), len(got))
	}
	for i := range batch {
		if got[i].Type != batch[i].Type || got[i].Code != batch[i].Code || got[i].Value != batch[i].Value {
			t.Errorf("event %d: expected %+v, got %+v", i, batch[i], got[i])
		}
	}
}

func TestKeyEventFiltersNonKeyTypes(t *testing.T) {
	if _, ok := synEv().KeyEvent(); ok {
		t.Error("expected EV_SYN to be filtered")
	}
	if _, ok := (RawEvent{Type: 0x04, Code: 4, Value: 30}).KeyEvent(); ok {
		t.Error("expected EV_MSC to be filtered")
	}
	ke, ok := keyEv(keycode.KEY_B, model.Repeated).KeyEvent()
	if !ok {
		t.Fatal("expected EV_KEY to convert")
	}
	if ke.Code != keycode.KEY_B || ke.Value != model.Repeated {
		t.Errorf("unexpected key event %+v", ke)
	}
}

func TestPollEOFIsReadError(t *testing.T) {
	dev, w := pipeDevice(t)
	w.Close()

	_, err := dev.Poll(context.Background())
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestPollPartialEventIsReadError(t *testing.T) {
	dev, w := pipeDevice(t)
	if _, err := w.Write([]byte{1, 2, 3, 4, 5}); err != nil {
		t.Fatal(err)
	}
	_, err := dev.Poll(context.Background())
	if !errors.Is(err, ErrRead) {
		t.Fatalf("expected ErrRead, got %v", err)
	}
}

func TestPollCancellation(t *testing.T) {
	dev, _ := pipeDevice(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := dev.Poll(ctx)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("poll did not return after cancellation")
	}
}

func TestPollAfterCancellationReturnsCause(t *testing.T) {
	dev, w := pipeDevice(t)
	cause := errors.New("device removed")
	ctx, cancel := context.WithCancelCause(context.Background())
	cancel(cause)

	if _, err := dev.Poll(ctx); !errors.Is(err, cause) {
		t.Fatalf("expected cancel cause, got %v", err)
	}

	// A fresh context must still be able to read after a cancelled one.
	if _, err := w.Write(encode(t, keyEv(keycode.KEY_A, model.Pressed))); err != nil {
		t.Fatal(err)
	}
	got, err := dev.Poll(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one event after reset, got %d (%v)", len(got), err)
	}
}

func TestOpenMissingPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "event99"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen, got %v", err)
	}
	var openErr *OpenError
	if !errors.As(err, &openErr) || !errors.Is(openErr.Err, os.ErrNotExist) {
		t.Fatalf("expected OpenError wrapping ErrNotExist, got %v", err)
	}
}

func TestOpenRegularFileIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event0")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); !errors.Is(err, ErrOpen) {
		t.Fatalf("expected ErrOpen for non-device file, got %v", err)
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	devDir := filepath.Join(dir, "dev", "input")
	sysRoot := filepath.Join(dir, "sys")
	if err := os.MkdirAll(devDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, n := range []string{"event10", "event2", "mouse0"} {
		if err := os.WriteFile(filepath.Join(devDir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	nameDir := filepath.Join(sysRoot, "class", "input", "event2", "device")
	if err := os.MkdirAll(nameDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(nameDir, "name"), []byte("AT Translated Set 2 keyboard\n"), 0644); err != nil {
		t.Fatal(err)
	}

	infos, err := List(filepath.Join(devDir, "event*"), sysRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 devices, got %d: %+v", len(infos), infos)
	}
	if filepath.Base(infos[0].Path) != "event2" || infos[0].Name != "AT Translated Set 2 keyboard" {
		t.Errorf("unexpected first device %+v", infos[0])
	}
	if filepath.Base(infos[1].Path) != "event10" || infos[1].Name != "unknown" {
		t.Errorf("unexpected second device %+v", infos[1])
	}
}
