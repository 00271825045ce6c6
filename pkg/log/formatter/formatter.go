// Package formatter provides the logrus formatter shared by services built
// on this library: a colored, prefixed, single-line format for terminals and
// a plain key:value format everywhere else.
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mgutz/ansi"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"
)

const defaultTimestampFormat = time.RFC3339

var (
	baseTimestamp = time.Now()

	defaultColorScheme = &ColorScheme{
		InfoLevelStyle:  "green",
		WarnLevelStyle:  "yellow",
		ErrorLevelStyle: "red",
		FatalLevelStyle: "red",
		PanicLevelStyle: "red",
		DebugLevelStyle: "blue",
		PrefixStyle:     "cyan",
		TimestampStyle:  "black+h",
	}

	noColorsColorScheme = &compiledColorScheme{
		InfoLevelColor:  ansi.ColorFunc(""),
		WarnLevelColor:  ansi.ColorFunc(""),
		ErrorLevelColor: ansi.ColorFunc(""),
		FatalLevelColor: ansi.ColorFunc(""),
		PanicLevelColor: ansi.ColorFunc(""),
		DebugLevelColor: ansi.ColorFunc(""),
		PrefixColor:     ansi.ColorFunc(""),
		TimestampColor:  ansi.ColorFunc(""),
	}

	defaultCompiledColorScheme = compileColorScheme(defaultColorScheme)

	prefixRegex = regexp.MustCompile(`^\[(.*?)\]`)
)

// miniTS -- Seconds since the process started, for the short timestamp mode
func miniTS() int {
	return int(time.Since(baseTimestamp) / time.Second)
}

// ColorScheme -- ansi styles for each part of the formatted line
type ColorScheme struct {
	InfoLevelStyle  string
	WarnLevelStyle  string
	ErrorLevelStyle string
	FatalLevelStyle string
	PanicLevelStyle string
	DebugLevelStyle string
	PrefixStyle     string
	TimestampStyle  string
}

type compiledColorScheme struct {
	InfoLevelColor  func(string) string
	WarnLevelColor  func(string) string
	ErrorLevelColor func(string) string
	FatalLevelColor func(string) string
	PanicLevelColor func(string) string
	DebugLevelColor func(string) string
	PrefixColor     func(string) string
	TimestampColor  func(string) string
}

// Formatter -- The library-wide logrus formatter
type Formatter struct {
	// Set to true to bypass checking for a TTY before outputting colors
	ForceColors bool

	// Force disabling colors even on a TTY
	DisableColors bool

	// Force the formatted (single-line, colored) layout even when the
	// output is not a TTY
	ForceFormatting bool

	// Disable timestamp logging. Useful when output is redirected to a
	// logging system that already adds timestamps
	DisableTimestamp bool

	// Print level names in lowercase instead of uppercase
	DisableUppercase bool

	// Enable logging the full timestamp instead of elapsed seconds
	FullTimestamp bool

	// Timestamp format to use for full timestamps
	TimestampFormat string

	// The fields are sorted by default for a consistent output
	DisableSorting bool

	// Wrap empty fields in quotes if true
	QuoteEmptyFields bool

	// Can be set to the override the default quoting character "
	QuoteCharacter string

	// Pad msg field with spaces on the right for display
	SpacePadding int

	colorScheme *compiledColorScheme
	isTerminal  bool

	sync.Once
}

func getCompiledColor(main string, fallback string) func(string) string {
	style := main
	if style == "" {
		style = fallback
	}
	return ansi.ColorFunc(style)
}

func compileColorScheme(s *ColorScheme) *compiledColorScheme {
	return &compiledColorScheme{
		InfoLevelColor:  getCompiledColor(s.InfoLevelStyle, defaultColorScheme.InfoLevelStyle),
		WarnLevelColor:  getCompiledColor(s.WarnLevelStyle, defaultColorScheme.WarnLevelStyle),
		ErrorLevelColor: getCompiledColor(s.ErrorLevelStyle, defaultColorScheme.ErrorLevelStyle),
		FatalLevelColor: getCompiledColor(s.FatalLevelStyle, defaultColorScheme.FatalLevelStyle),
		PanicLevelColor: getCompiledColor(s.PanicLevelStyle, defaultColorScheme.PanicLevelStyle),
		DebugLevelColor: getCompiledColor(s.DebugLevelStyle, defaultColorScheme.DebugLevelStyle),
		PrefixColor:     getCompiledColor(s.PrefixStyle, defaultColorScheme.PrefixStyle),
		TimestampColor:  getCompiledColor(s.TimestampStyle, defaultColorScheme.TimestampStyle),
	}
}

// SetColorScheme -- Overrides the default color scheme
func (f *Formatter) SetColorScheme(colorScheme *ColorScheme) {
	f.colorScheme = compileColorScheme(colorScheme)
}

func (f *Formatter) init(entry *logrus.Entry) {
	if entry.Logger != nil {
		f.isTerminal = f.checkIfTerminal(entry.Logger.Out)
	}
	if f.QuoteCharacter == "" {
		f.QuoteCharacter = `"`
	}
}

func (f *Formatter) checkIfTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return terminal.IsTerminal(int(v.Fd()))
	default:
		return false
	}
}

// Format -- Renders a logrus entry as a single log line
func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b *bytes.Buffer
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	lastKeyIdx := len(keys) - 1

	if !f.DisableSorting {
		sort.Strings(keys)
	}
	if entry.Buffer != nil {
		b = entry.Buffer
	} else {
		b = &bytes.Buffer{}
	}

	prefixFieldClashes(entry.Data)
	f.Do(func() { f.init(entry) })

	timestampFormat := f.TimestampFormat
	if timestampFormat == "" {
		timestampFormat = defaultTimestampFormat
	}

	if f.ForceFormatting || f.isTerminal {
		isColored := (f.ForceColors || f.isTerminal) && !f.DisableColors

		colorScheme := noColorsColorScheme
		if isColored {
			if f.colorScheme == nil {
				colorScheme = defaultCompiledColorScheme
			} else {
				colorScheme = f.colorScheme
			}
		}

		f.printColored(b, entry, keys, timestampFormat, colorScheme)
	} else {
		if !f.DisableTimestamp {
			f.appendKeyValue(b, "time", entry.Time.Format(timestampFormat), true)
		}
		f.appendKeyValue(b, "level", entry.Level.String(), true)
		if entry.Message != "" {
			f.appendKeyValue(b, "msg", entry.Message, lastKeyIdx >= 0)
		}
		for i, key := range keys {
			f.appendKeyValue(b, key, entry.Data[key], i != lastKeyIdx)
		}
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// printColored -- The formatted terminal layout:
//
//	[timestamp] LEVEL service@version prefix: message key=value ...
func (f *Formatter) printColored(b io.Writer, entry *logrus.Entry, keys []string, timestampFormat string, colorScheme *compiledColorScheme) {
	var levelColor func(string) string
	switch entry.Level {
	case logrus.InfoLevel:
		levelColor = colorScheme.InfoLevelColor
	case logrus.WarnLevel:
		levelColor = colorScheme.WarnLevelColor
	case logrus.ErrorLevel:
		levelColor = colorScheme.ErrorLevelColor
	case logrus.FatalLevel:
		levelColor = colorScheme.FatalLevelColor
	case logrus.PanicLevel:
		levelColor = colorScheme.PanicLevelColor
	default:
		levelColor = colorScheme.DebugLevelColor
	}

	levelText := entry.Level.String()
	if entry.Level == logrus.WarnLevel {
		levelText = "warn"
	}
	if !f.DisableUppercase {
		levelText = strings.ToUpper(levelText)
	}

	level := levelColor(fmt.Sprintf("%5s", levelText))
	message := entry.Message

	prefix := ""
	if prefixValue, ok := entry.Data["prefix"]; ok {
		prefix = colorScheme.PrefixColor(" " + fmt.Sprint(prefixValue) + ":")
	} else if prefixValue, trimmed := extractPrefix(message); prefixValue != "" {
		prefix = colorScheme.PrefixColor(" " + prefixValue + ":")
		message = trimmed
	}

	// The service and version fields set by the logger package collapse
	// into a single service@version tag.
	service := ""
	if name, ok := entry.Data["service"]; ok {
		if version, ok := entry.Data["version"]; ok {
			service = fmt.Sprintf(" %s@%s", name, version)
		}
	}

	messageFormat := "%s"
	if f.SpacePadding != 0 {
		messageFormat = fmt.Sprintf("%%-%ds", f.SpacePadding)
	}

	if f.DisableTimestamp {
		fmt.Fprintf(b, "%s%s%s "+messageFormat, level, service, prefix, message)
	} else {
		var timestamp string
		if !f.FullTimestamp {
			timestamp = fmt.Sprintf("[%04d]", miniTS())
		} else {
			timestamp = fmt.Sprintf("[%s]", entry.Time.Format(timestampFormat))
		}
		fmt.Fprintf(b, "%s %s%s%s "+messageFormat, colorScheme.TimestampColor(timestamp), level, service, prefix, message)
	}

	for _, k := range keys {
		if k == "prefix" || k == "service" || k == "version" {
			continue
		}
		fmt.Fprintf(b, " %s=%+v", levelColor(k), entry.Data[k])
	}
}

func extractPrefix(msg string) (string, string) {
	prefix := ""
	if match := prefixRegex.FindString(msg); match != "" {
		prefix = match[1 : len(match)-1]
		msg = strings.TrimSpace(msg[len(match):])
	}
	return prefix, msg
}

func (f *Formatter) needsQuoting(text string) bool {
	if f.QuoteEmptyFields && len(text) == 0 {
		return true
	}
	for _, ch := range text {
		if !((ch >= 'a' && ch <= 'z') ||
			(ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') ||
			ch == '-' || ch == '.') {
			return true
		}
	}
	return false
}

func (f *Formatter) appendKeyValue(b *bytes.Buffer, key string, value interface{}, appendSpace bool) {
	b.WriteString(key)
	b.WriteByte(':')
	f.appendValue(b, value)

	if appendSpace {
		b.WriteByte(' ')
	}
}

func (f *Formatter) appendValue(b *bytes.Buffer, value interface{}) {
	switch value := value.(type) {
	case string:
		if !f.needsQuoting(value) {
			b.WriteString(value)
		} else {
			fmt.Fprintf(b, "%s%v%s", f.QuoteCharacter, value, f.QuoteCharacter)
		}
	case error:
		errmsg := value.Error()
		if !f.needsQuoting(errmsg) {
			b.WriteString(errmsg)
		} else {
			fmt.Fprintf(b, "%s%v%s", f.QuoteCharacter, errmsg, f.QuoteCharacter)
		}
	default:
		fmt.Fprint(b, value)
	}
}

// prefixFieldClashes -- Moves user fields that collide with the standard
// time/msg/level names under a fields. prefix
func prefixFieldClashes(data logrus.Fields) {
	if t, ok := data["time"]; ok {
		data["fields.time"] = t
	}
	if m, ok := data["msg"]; ok {
		data["fields.msg"] = m
	}
	if l, ok := data["level"]; ok {
		data["fields.level"] = l
	}
}
