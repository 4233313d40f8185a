// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// LogEntry is a parsed JSON log record.
type LogEntry struct {
	Level   string
	Message string
	Attrs   map[string]any
}

// syncBuffer is a bytes.Buffer safe for concurrent writers, such as
// handlers served by httptest.Server goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) snapshot() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return bytes.Clone(b.buf.Bytes())
}

func (b *syncBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// ParseJSONLogEntries parses newline-delimited JSON records. Time is dropped.
func ParseJSONLogEntries(data []byte) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, fmt.Errorf("parse log line: %w", err)
		}

		entry := LogEntry{Attrs: make(map[string]any, len(raw))}
		for k, v := range raw {
			switch k {
			case "time":
			case "level":
				entry.Level, _ = v.(string)
			case "msg":
				entry.Message, _ = v.(string)
			default:
				entry.Attrs[k] = v
			}
		}
		entries = append(entries, entry)
	}

	return entries, scanner.Err()
}

// TestHelper captures JSON output of a debug-level [Logger] in memory.
type TestHelper struct {
	Logger *Logger
	buf    *syncBuffer
}

// NewTestHelper creates a [TestHelper]. Options are applied after the
// defaults, so they can override level or handler.
func NewTestHelper(t testing.TB, opts ...Option) *TestHelper {
	t.Helper()

	buf := &syncBuffer{}
	all := append([]Option{WithJSONHandler(), WithOutput(buf), WithDebugLevel()}, opts...)
	logger, err := New(all...)
	require.NoError(t, err)

	return &TestHelper{Logger: logger, buf: buf}
}

// Logs returns all records written so far.
func (th *TestHelper) Logs(t testing.TB) []LogEntry {
	t.Helper()

	entries, err := ParseJSONLogEntries(th.buf.snapshot())
	require.NoError(t, err)

	return entries
}

// Find returns the first record with the given message.
func (th *TestHelper) Find(t testing.TB, msg string) (LogEntry, bool) {
	t.Helper()

	for _, e := range th.Logs(t) {
		if e.Message == msg {
			return e, true
		}
	}

	return LogEntry{}, false
}

// ContainsLog reports whether any record has the given message.
func (th *TestHelper) ContainsLog(t testing.TB, msg string) bool {
	t.Helper()
	_, ok := th.Find(t, msg)

	return ok
}

// CountLevel returns the number of records at level ("DEBUG", "INFO", ...).
func (th *TestHelper) CountLevel(t testing.TB, level string) int {
	t.Helper()

	n := 0
	for _, e := range th.Logs(t) {
		if e.Level == level {
			n++
		}
	}

	return n
}

// Reset discards captured output.
func (th *TestHelper) Reset() {
	th.buf.reset()
}

// String returns the raw captured output.
func (th *TestHelper) String() string {
	return string(th.buf.snapshot())
}
