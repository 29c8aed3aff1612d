package parser

import (
	"regexp"
	"strconv"
	"time"

	"github.com/atikulmunna/sigma-input/internal/journal"
	"github.com/atikulmunna/sigma-input/internal/model"
)

// Parser converts a raw keystroke-log line into a Record.
type Parser interface {
	Parse(raw string, source string) model.Record
}

var (
	lineRe     = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})  (.*)$`)
	modifierRe = regexp.MustCompile(`^LEFTALT: key code: (\S+), value: (-?\d+)$`)
	keyRe      = regexp.MustCompile(`^key (\S+) got with value (-?\d+)$`)
	deviceRe   = regexp.MustCompile(`^Opened device: `)
)

// LineParser understands the "YYYY-MM-DD HH:MM:SS  description" lines written
// by the journal. Timestamps are read in loc.
type LineParser struct {
	loc *time.Location
}

// NewLineParser returns a parser using the local time zone.
func NewLineParser() *LineParser {
	return &LineParser{loc: time.Local}
}

func (p *LineParser) Parse(raw string, source string) model.Record {
	rec := base(raw, source)

	m := lineRe.FindStringSubmatch(raw)
	if m == nil {
		return rec
	}
	if ts, err := time.ParseInLocation(journal.TimeLayout, m[1], p.loc); err == nil {
		rec.Timestamp = ts
	}
	rec.Description = m[2]

	switch {
	case modifierRe.MatchString(m[2]):
		sub := modifierRe.FindStringSubmatch(m[2])
		rec.Kind = model.KindModifier
		rec.Key = sub[1]
		rec.Value = parseValue(sub[2])
	case keyRe.MatchString(m[2]):
		sub := keyRe.FindStringSubmatch(m[2])
		rec.Kind = model.KindKey
		rec.Key = sub[1]
		rec.Value = parseValue(sub[2])
	case deviceRe.MatchString(m[2]):
		rec.Kind = model.KindDevice
	}
	return rec
}

// base returns a Record for a line that does not follow the journal format.
func base(raw, source string) model.Record {
	return model.Record{
		Timestamp:   time.Now(),
		Kind:        model.KindDevice,
		Source:      source,
		Description: raw,
	}
}

func parseValue(s string) model.KeyValue {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0
	}
	return model.KeyValue(v)
}
