package formatter

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func newEntryWithFields(fields logrus.Fields) *logrus.Entry {
	return &logrus.Entry{
		Logger: logrus.New(),
		Data:   fields,
		Time:   time.Date(2024, 11, 10, 12, 0, 0, 0, time.UTC),
		Level:  logrus.InfoLevel,
	}
}

// --- extractPrefix() tests ---

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		input       string
		wantPrefix  string
		wantMessage string
	}{
		{"[postgres] connection opened", "postgres", "connection opened"},
		{"no prefix message", "", "no prefix message"},
		{"[p]msg", "p", "msg"},
	}

	for _, tt := range tests {
		p, m := extractPrefix(tt.input)
		if p != tt.wantPrefix || m != tt.wantMessage {
			t.Errorf("extractPrefix(%q) = (%q,%q), want (%q,%q)",
				tt.input, p, m, tt.wantPrefix, tt.wantMessage)
		}
	}
}

// --- needsQuoting() tests ---

func TestNeedsQuoting(t *testing.T) {
	f := &Formatter{}

	tests := map[string]bool{
		"localhost":    false,
		"some db":      true,
		"special!":     true,
		"socket_dir":   true,
		"some-host":    false,
		"some.ser.ver": false,
		"":             false,
	}

	for input, expected := range tests {
		got := f.needsQuoting(input)
		if got != expected {
			t.Errorf("needsQuoting(%q) = %v, want %v", input, got, expected)
		}
	}
}

// --- appendKeyValue() and appendValue() tests ---

func TestAppendKeyValue_StringAndError(t *testing.T) {
	f := &Formatter{QuoteCharacter: `"`}
	var b bytes.Buffer

	// string without quoting
	f.appendKeyValue(&b, "host", "localhost", true)
	// string with quoting
	f.appendKeyValue(&b, "database", "some db", true)
	// error quoting
	f.appendKeyValue(&b, "err", errors.New("connection refused"), false)

	out := b.String()
	if !strings.Contains(out, "host:localhost") {
		t.Errorf("expected host:localhost, got %s", out)
	}
	if !strings.Contains(out, `"some db"`) {
		t.Errorf("expected quoted string, got %s", out)
	}
	if !strings.Contains(out, `"connection refused"`) {
		t.Errorf("expected quoted error, got %s", out)
	}
}

// --- prefixFieldClashes() tests ---

func TestPrefixFieldClashes(t *testing.T) {
	data := logrus.Fields{
		"time":  "now",
		"msg":   "hi",
		"level": "warn",
	}
	prefixFieldClashes(data)

	if _, ok := data["fields.time"]; !ok {
		t.Error("expected fields.time to be added")
	}
	if _, ok := data["fields.msg"]; !ok {
		t.Error("expected fields.msg to be added")
	}
	if _, ok := data["fields.level"]; !ok {
		t.Error("expected fields.level to be added")
	}
}

// --- Format() plain mode tests ---

func TestFormatPlain(t *testing.T) {
	f := &Formatter{
		ForceFormatting: false,
		DisableColors:   true,
		DisableSorting:  false,
	}
	entry := newEntryWithFields(logrus.Fields{"hostname": "localhost", "database": "somedb"})
	entry.Message = "connection opened"

	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(b)
	if !strings.Contains(s, `msg:"connection opened"`) {
		t.Errorf("expected quoted msg field, got %s", s)
	}
	if !strings.Contains(s, "hostname:localhost") || !strings.Contains(s, "database:somedb") {
		t.Errorf("expected fields in output, got %s", s)
	}
	if !strings.HasSuffix(s, "\n") {
		t.Error("expected newline at end of formatted log")
	}
}

// --- Format() colored mode tests ---

func TestFormatColored(t *testing.T) {
	f := &Formatter{
		ForceFormatting: true,
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	}

	entry := newEntryWithFields(logrus.Fields{
		"service": "svc",
		"version": "v1",
	})
	entry.Message = "[postgres] opening connection"

	b, err := f.Format(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := string(b)
	if !strings.Contains(out, "postgres") {
		t.Errorf("expected prefix to appear, got %s", out)
	}
	if !strings.Contains(out, "svc@v1") {
		t.Errorf("expected service@version, got %s", out)
	}
	if !strings.Contains(out, "opening connection") {
		t.Errorf("expected message in output, got %s", out)
	}
}

// --- DisableTimestamp & FullTimestamp tests ---

func TestFormat_DisableTimestamp(t *testing.T) {
	f := &Formatter{
		ForceFormatting:  true,
		DisableTimestamp: true,
		ForceColors:      false,
	}
	entry := newEntryWithFields(logrus.Fields{})
	entry.Message = "no ts"

	b, _ := f.Format(entry)
	if strings.Contains(string(b), "time") {
		t.Error("expected no timestamp in output when DisableTimestamp=true")
	}
}

// --- Custom ColorScheme tests ---

func TestSetColorScheme(t *testing.T) {
	f := &Formatter{}
	cs := &ColorScheme{InfoLevelStyle: "red"}
	f.SetColorScheme(cs)

	if f.colorScheme == nil {
		t.Fatal("expected colorScheme to be set")
	}
}

// --- printColored() isolated test ---

func TestPrintColoredBasic(t *testing.T) {
	f := &Formatter{DisableUppercase: true}
	entry := newEntryWithFields(logrus.Fields{
		"prefix":  "postgres",
		"service": "svc",
		"version": "v1",
	})
	entry.Message = "connection opened"
	entry.Level = logrus.InfoLevel

	var buf bytes.Buffer
	f.printColored(&buf, entry, []string{"hostname"}, time.RFC3339, defaultCompiledColorScheme)

	out := buf.String()
	if !strings.Contains(out, "INFO") && !strings.Contains(out, "info") {
		t.Errorf("expected level text, got %s", out)
	}
	if !strings.Contains(out, "svc@v1") {
		t.Errorf("expected service@version, got %s", out)
	}
	if !strings.Contains(out, "connection opened") {
		t.Errorf("expected message in output, got %s", out)
	}
}

// --- checkIfTerminal() behavior ---

func TestCheckIfTerminalWithNonFile(t *testing.T) {
	f := &Formatter{}
	if f.checkIfTerminal(&bytes.Buffer{}) {
		t.Error("expected non-terminal writer to return false")
	}
}

// --- miniTS() sanity test ---

func TestMiniTSIncreases(t *testing.T) {
	ts1 := miniTS()
	time.Sleep(1 * time.Second)
	ts2 := miniTS()
	if ts2 <= ts1 {
		t.Error("expected miniTS to increase over time")
	}
}
