package sse

import (
	"bufio"
	"bytes"
	"regexp"
	"strconv"
	"strings"

	"github.com/kbukum/ssekit/errors"
)

// lineBreak matches every line terminator accepted inside event payloads.
var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// KeepAliveFrame is the comment frame written on an idle connection.
// Standard SSE clients ignore lines starting with a colon.
var KeepAliveFrame = []byte(": ping\n\n")

// Event is a single server-sent event. Data is required; the other fields
// emit their corresponding wire lines only when set.
type Event struct {
	// Data is the event payload. It may contain embedded newlines, which are
	// re-emitted as multiple data: lines on the wire.
	Data string
	// ID sets the event id, used by clients for Last-Event-ID resumption.
	ID string
	// Type is the event type name dispatched to named listeners.
	Type string
	// Retry is the client reconnection delay in milliseconds, 0 to omit.
	Retry int
}

// Validate reports whether the event is well-formed enough to encode.
func (e Event) Validate() error {
	if e.Data == "" {
		return errors.MissingField("data")
	}
	if e.Retry < 0 {
		return errors.InvalidInput("retry", "must be a non-negative number of milliseconds")
	}
	return nil
}

// Encode serializes the event into one SSE wire frame. Optional fields emit
// one line each, multi-line data emits one data: line per payload line, and
// the frame ends with a blank line marking the event boundary.
//
// Line breaks embedded in ID and Type are stripped so a hostile value cannot
// forge extra frame lines.
func (e Event) Encode() []byte {
	var b strings.Builder
	if e.ID != "" {
		b.WriteString("id: ")
		b.WriteString(lineBreak.ReplaceAllString(e.ID, ""))
		b.WriteByte('\n')
	}
	if e.Type != "" {
		b.WriteString("event: ")
		b.WriteString(lineBreak.ReplaceAllString(e.Type, ""))
		b.WriteByte('\n')
	}
	if e.Retry > 0 {
		b.WriteString("retry: ")
		b.WriteString(strconv.Itoa(e.Retry))
		b.WriteByte('\n')
	}
	for _, line := range lineBreak.Split(e.Data, -1) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// Decode parses a single SSE wire frame back into an Event. Comment lines
// are skipped and multiple data: lines are rejoined with newlines. It is the
// inverse of Encode for valid events and exists mainly for clients and tests.
func Decode(frame []byte) (Event, error) {
	var (
		ev        Event
		dataLines []string
		sawField  bool
	)
	sc := bufio.NewScanner(bytes.NewReader(frame))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			break
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "id":
			ev.ID = value
		case "event":
			ev.Type = value
		case "retry":
			ms, err := strconv.Atoi(value)
			if err != nil {
				return Event{}, errors.InvalidFormat("retry", "integer milliseconds").WithCause(err)
			}
			ev.Retry = ms
		case "data":
			dataLines = append(dataLines, value)
		default:
			// Unknown fields are ignored per the SSE processing model.
			continue
		}
		sawField = true
	}
	if err := sc.Err(); err != nil {
		return Event{}, errors.InvalidFormat("frame", "SSE event stream").WithCause(err)
	}
	if !sawField {
		return Event{}, errors.MissingField("data")
	}
	ev.Data = strings.Join(dataLines, "\n")
	return ev, nil
}
