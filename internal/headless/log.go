package headless

import "fmt"

// LogEntry is one recorded event during a headless run.
type LogEntry struct {
	Step     int
	Category string  // render, refresh, burst, snapshot
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[S=03] render    shown            radius=24.0 circles=8
func (e LogEntry) String() string {
	return fmt.Sprintf("[S=%02d] %-9s %-16s %s", e.Step, e.Category, e.Key, e.Value)
}

// Log collects structured events during a headless run.
type Log struct {
	entries []LogEntry
}

// Add records a new entry.
func (l *Log) Add(step int, category, key, value string, numVal float64) {
	l.entries = append(l.entries, LogEntry{
		Step:     step,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// Entries returns all recorded entries.
func (l *Log) Entries() []LogEntry {
	return l.entries
}

// Filter returns entries matching the given category and/or key. Pass an empty
// string to match any value for that field.
func (l *Log) Filter(category, key string) []LogEntry {
	var out []LogEntry
	for _, e := range l.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}
