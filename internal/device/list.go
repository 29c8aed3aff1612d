package device

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultPattern matches every evdev node.
	DefaultPattern = "/dev/input/event*"
	// DefaultSysRoot is where sysfs exposes device names.
	DefaultSysRoot = "/sys"
)

// Info describes a discoverable input device.
type Info struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// List expands pattern and resolves each node's name through sysfs, without
// opening the node itself (no device permissions needed).
func List(pattern, sysRoot string) ([]Info, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Slice(matches, func(i, j int) bool {
		// event2 before event10
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})

	out := make([]Info, 0, len(matches))
	for _, m := range matches {
		out = append(out, Info{Path: m, Name: sysfsName(sysRoot, filepath.Base(m))})
	}
	return out, nil
}

func sysfsName(sysRoot, node string) string {
	raw, err := os.ReadFile(filepath.Join(sysRoot, "class", "input", node, "device", "name"))
	if err != nil {
		return unknownName
	}
	name := strings.TrimSpace(string(raw))
	if name == "" {
		return unknownName
	}
	return name
}
