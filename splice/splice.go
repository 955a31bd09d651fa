package splice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zhubert/stowaway/marker"
)

// ErrUnterminatedBlock indicates a BEGIN marker with no matching END before
// end of content, which means external edits damaged a marker block.
var ErrUnterminatedBlock = errors.New("marker block has no matching end")

// Remove deletes every marker block belonging to sessionID from content:
// each line from a BEGIN through the END carrying the same identity tuple,
// plus any stray marker lines left behind for that session. All other lines,
// marker blocks of other sessions included, survive byte-for-byte in their
// original order. The removed snippet texts are returned in encounter order.
//
// A BEGIN whose matching END never arrives aborts with ErrUnterminatedBlock
// and no content is returned; the caller surfaces the error rather than
// guessing. A second BEGIN or an END with a different tuple inside an open
// block counts as a lost END, since otherwise host lines between two damaged
// blocks would silently vanish with the markers.
func Remove(content, sessionID, prefix string) (string, []string, error) {
	lines := strings.Split(content, "\n")
	kept := make([]string, 0, len(lines))
	var texts []string

	inBlock := false
	var open marker.Mark
	for _, line := range lines {
		m, ok := marker.Decode(line, prefix)

		if inBlock {
			// Everything between BEGIN and its END is engine-owned and
			// dropped, decodable or not.
			if ok && m.SessionID == sessionID {
				switch m.Kind {
				case marker.KindBegin:
					return "", nil, fmt.Errorf("%w: session %s page %d snippet %d",
						ErrUnterminatedBlock, sessionID, open.Page, open.Index)
				case marker.KindText:
					texts = append(texts, m.Text)
				case marker.KindEnd:
					if m.Page != open.Page || m.Index != open.Index || m.Count != open.Count {
						return "", nil, fmt.Errorf("%w: session %s page %d snippet %d",
							ErrUnterminatedBlock, sessionID, open.Page, open.Index)
					}
					inBlock = false
				}
			}
			continue
		}

		if ok && m.SessionID == sessionID {
			switch m.Kind {
			case marker.KindBegin:
				inBlock = true
				open = m
			case marker.KindText:
				// Stray engine line outside a block; drop it but keep the text.
				texts = append(texts, m.Text)
			case marker.KindEnd:
				// Stray end, drop.
			}
			continue
		}

		kept = append(kept, line)
	}

	if inBlock {
		return "", nil, fmt.Errorf("%w: session %s page %d snippet %d",
			ErrUnterminatedBlock, sessionID, open.Page, open.Index)
	}
	return strings.Join(kept, "\n"), texts, nil
}

// Insert splices each block's lines into content at its planned index,
// consuming plan in ascending order against the growing buffer. plan and
// blocks correspond position for position; indices beyond the last line
// append at the end. The result has exactly len(old lines) plus the total
// block lines.
func Insert(content string, plan []int, blocks [][]string) string {
	lines := strings.Split(content, "\n")

	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	out := make([]string, 0, len(lines)+total)

	bi := 0
	for i := 0; i <= len(lines); i++ {
		for bi < len(plan) && plan[bi] == i {
			out = append(out, blocks[bi]...)
			bi++
		}
		if i < len(lines) {
			out = append(out, lines[i])
		}
	}
	for bi < len(blocks) {
		out = append(out, blocks[bi]...)
		bi++
	}

	return strings.Join(out, "\n")
}
