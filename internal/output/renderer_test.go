package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/atikulmunna/sigma-input/internal/device"
	"github.com/atikulmunna/sigma-input/internal/model"
)

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	renderer, err := New("json", &buf)
	if err != nil {
		t.Fatal(err)
	}

	rec := model.Record{
		Timestamp:   time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC),
		Kind:        model.KindKey,
		Key:         "KEY_A",
		Value:       model.Pressed,
		Description: "key KEY_A got with value 1",
	}

	if err := renderer.Render(rec); err != nil {
		t.Fatal(err)
	}

	// Parse the output JSON.
	var got model.Record
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\nraw: %s", err, buf.String())
	}

	if got.Kind != model.KindKey {
		t.Errorf("expected kind key, got %s", got.Kind)
	}
	if got.Description != rec.Description {
		t.Errorf("expected description %q, got %q", rec.Description, got.Description)
	}
}

func TestTextRendererIncludesDescription(t *testing.T) {
	var buf bytes.Buffer
	renderer, err := New("text", &buf)
	if err != nil {
		t.Fatal(err)
	}
	rec := model.Record{
		Timestamp:   time.Now(),
		Kind:        model.KindModifier,
		Description: "LEFTALT: key code: KEY_LEFTALT, value: 1",
	}
	if err := renderer.Render(rec); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), rec.Description) {
		t.Errorf("expected output to contain description, got %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected one line per record")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New("yaml", &bytes.Buffer{}); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestRenderDevices(t *testing.T) {
	infos := []device.Info{{Path: "/dev/input/event3", Name: "AT Translated Set 2 keyboard"}}

	var text bytes.Buffer
	if err := RenderDevices(&text, "text", infos); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text.String(), "/dev/input/event3") || !strings.Contains(text.String(), "AT Translated Set 2 keyboard") {
		t.Errorf("unexpected text listing %q", text.String())
	}

	var js bytes.Buffer
	if err := RenderDevices(&js, "json", infos); err != nil {
		t.Fatal(err)
	}
	var got []device.Info
	if err := json.Unmarshal(js.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != infos[0].Name {
		t.Errorf("unexpected JSON listing %+v", got)
	}
}
