// Package marker defines the exact textual form of an injected comment
// block and encodes/decodes it losslessly.
//
// Every marker line starts with the session's comment prefix followed by the
// versioned sentinel tag, so a marker reads as an ordinary comment to the
// host language while remaining unmistakable to the scanner:
//
//	# <<<stowaway:1 BEGIN sid=3f2a... page=0 snip=1/4>>>
//	# <<<stowaway:1 TEXT sid=3f2a... page=0 snip=1/4>>> the snippet text
//	# <<<stowaway:1 END sid=3f2a... page=0 snip=1/4>>>
//
// Snippet text rides on the TEXT line after the closing tag, escaped so that
// embedded newlines, backslashes, or sentinel occurrences survive the round
// trip (see escape.go). Decoding is strict: any line that does not match the
// full structure is reported as not-a-marker, never misread.
package marker

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel is the fixed tag carried by every marker line. Versioned so a
// future format change cannot be confused with this one.
const Sentinel = "<<<stowaway:1"

// Kind distinguishes the three marker line forms.
type Kind string

const (
	KindBegin Kind = "BEGIN"
	KindText  Kind = "TEXT"
	KindEnd   Kind = "END"
)

// Mark is one decoded marker line: the identity tuple shared by all lines of
// a block, plus the snippet text for TEXT lines.
type Mark struct {
	Kind      Kind
	SessionID string
	Page      int
	Index     int
	Count     int
	Text      string
}

// lineRe matches everything after the sentinel. The trailing group holds the
// TEXT payload (present only after ">>> ").
var lineRe = regexp.MustCompile(`^(BEGIN|TEXT|END) sid=([0-9a-fA-F-]+) page=(\d+) snip=(\d+)/(\d+)>>>(?:[ \t](.*))?$`)

// EncodeBlock renders the full injected region for one snippet: BEGIN, TEXT,
// and END lines, each carrying the identity tuple (sessionID, page, index,
// count). The returned lines contain no newline characters.
func EncodeBlock(prefix, sessionID string, page, index, count int, text string) []string {
	tag := fmt.Sprintf("sid=%s page=%d snip=%d/%d", sessionID, page, index, count)
	return []string{
		fmt.Sprintf("%s %s BEGIN %s>>>", prefix, Sentinel, tag),
		fmt.Sprintf("%s %s TEXT %s>>> %s", prefix, Sentinel, tag, Escape(text)),
		fmt.Sprintf("%s %s END %s>>>", prefix, Sentinel, tag),
	}
}

// Decode classifies one host line. It returns the decoded Mark and true when
// the line is a marker written with the given comment prefix; for every
// other line it returns false. Leading indentation is tolerated, everything
// else must match exactly.
func Decode(line, prefix string) (Mark, bool) {
	rest := strings.TrimLeft(line, " \t")
	rest, ok := strings.CutPrefix(rest, prefix)
	if !ok {
		return Mark{}, false
	}
	rest = strings.TrimLeft(rest, " \t")
	rest, ok = strings.CutPrefix(rest, Sentinel+" ")
	if !ok {
		return Mark{}, false
	}

	m := lineRe.FindStringSubmatch(rest)
	if m == nil {
		return Mark{}, false
	}

	kind := Kind(m[1])
	page, err := strconv.Atoi(m[3])
	if err != nil {
		return Mark{}, false
	}
	index, err := strconv.Atoi(m[4])
	if err != nil {
		return Mark{}, false
	}
	count, err := strconv.Atoi(m[5])
	if err != nil {
		return Mark{}, false
	}

	// BEGIN and END carry no payload; anything after their tag is not ours.
	if kind != KindText && m[6] != "" {
		return Mark{}, false
	}

	text := ""
	if kind == KindText {
		text, ok = Unescape(m[6])
		if !ok {
			return Mark{}, false
		}
	}

	return Mark{
		Kind:      kind,
		SessionID: m[2],
		Page:      page,
		Index:     index,
		Count:     count,
		Text:      text,
	}, true
}

// ContainsSentinel reports whether content holds the raw sentinel anywhere.
// Escaping guarantees encoded snippet text never does, so a hit means marker
// lines (this engine's or a stale session's) are present.
func ContainsSentinel(content string) bool {
	return strings.Contains(content, Sentinel)
}
