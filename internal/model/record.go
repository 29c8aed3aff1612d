package model

import "time"

// Kind classifies why a record was emitted.
type Kind string

const (
	KindModifier Kind = "modifier" // the tracked modifier changed or repeated
	KindKey      Kind = "key"      // another key while the modifier was held
	KindDevice   Kind = "device"   // lifecycle notes such as the opened device
)

// Record is one line of the keystroke log.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Kind        Kind      `json:"kind"`
	Key         string    `json:"key,omitempty"`
	Value       KeyValue  `json:"value"`
	Description string    `json:"description"`
	Source      string    `json:"source,omitempty"` // log file the record was read from
}

// RawLine is an unparsed line read back from a log file.
type RawLine struct {
	Text   string
	Source string
}
