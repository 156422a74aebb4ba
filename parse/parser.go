// Package parse recovers structured records from raw MML response
// text. The protocol is not self-describing: record boundaries, field
// repetition and termination all have to be inferred from line shapes.
package parse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/nanoncore/nano-mml/types"
)

var (
	retcodeRE     = regexp.MustCompile(`RETCODE\s*=\s*(\d+)\s*(.*)`)
	resultCountRE = regexp.MustCompile(`\(Number of results\s*=\s*\d+\)`)
	noMatchRE     = regexp.MustCompile(`(?i)no matching result`)

	// contextHeaderRE matches the fixed prefix that starts one PDP
	// context block: the node, then six labelled index tokens.
	contextHeaderRE = regexp.MustCompile(
		`(?i)^PDP context on\s+` +
			`(?P<node>.+?)\s+` +
			`SGID\s+(?P<sgid>\S+)\s+` +
			`ContextIndex\s+(?P<context_index>\S+)\s+` +
			`GtpuIndex\s+(?P<gtpu_index>\S+)\s+` +
			`FilterIndex\s+(?P<filter_index>\S+)\s+` +
			`SessionIndex\s+(?P<session_index>\S+)\s+` +
			`BearerIndex\s+(?P<bearer_index>\S+)`)
)

// Shape selects how record boundaries are recovered from the text.
type Shape int

const (
	// ShapePDP splits the body into header-delimited context blocks.
	ShapePDP Shape = iota

	// ShapeFlat collects every key/value line between the result code
	// and the summary marker into a single record. MM-style responses
	// carry no block headers.
	ShapeFlat
)

// scan states of the line parser.
type state int

const (
	stateScanning state = iota // looking for a header, summary or field line
	stateInRecord              // a record is open; field lines attach to it
	stateDone                  // summary marker seen; nothing after it counts
)

// ResultCode extracts the RETCODE line, if present, from one line.
func ResultCode(line string) (types.ResultCode, bool) {
	m := retcodeRE.FindStringSubmatch(line)
	if m == nil {
		return types.ResultCode{}, false
	}
	code, err := strconv.Atoi(m[1])
	if err != nil {
		return types.ResultCode{}, false
	}
	rc := types.ResultCode{Code: &code}
	if msg := strings.TrimSpace(m[2]); msg != "" {
		rc.Message = &msg
	}
	return rc, true
}

// Parse splits raw response text into its result code and context
// records. A missing RETCODE line yields a nil code and no records; a
// non-zero code yields that code and no records regardless of any
// trailing text resembling records. Parse never fails: malformed input
// degrades to fewer records, not an error.
func Parse(text string, shape Shape) (types.ResultCode, []*types.ContextRecord) {
	lines := splitLines(text)

	var ret types.ResultCode
	retIdx := -1
	for i, line := range lines {
		if rc, ok := ResultCode(line); ok {
			ret = rc
			retIdx = i
			break
		}
	}
	if retIdx < 0 || !ret.OK() {
		return ret, nil
	}

	// Explicit zero-result phrasing is a success short-circuit, not a
	// parse failure.
	if noMatchRE.MatchString(text) {
		return ret, nil
	}

	var records []*types.ContextRecord
	var current *types.ContextRecord

	st := stateScanning
	body := lines
	if shape == ShapeFlat {
		// Flat collection only starts past the RETCODE line; the
		// echoed command and the RETCODE line both contain '='.
		current = types.NewContextRecord()
		st = stateInRecord
		body = lines[retIdx+1:]
	}

	for _, raw := range body {
		if st == stateDone {
			break
		}
		if resultCountRE.MatchString(raw) {
			st = stateDone
			break
		}

		line := strings.TrimSpace(raw)

		if shape == ShapePDP {
			if m := contextHeaderRE.FindStringSubmatch(line); m != nil {
				if current != nil {
					records = append(records, current)
				}
				current = types.NewContextRecord()
				for i, name := range contextHeaderRE.SubexpNames() {
					if name != "" {
						current.Add(name, m[i])
					}
				}
				st = stateInRecord
				continue
			}
		}

		if st != stateInRecord || line == "" || !strings.Contains(line, "=") {
			continue
		}

		key, value, _ := strings.Cut(line, "=")
		current.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	if current != nil && (shape == ShapePDP || current.Len() > 0) {
		records = append(records, current)
	}
	return ret, records
}

// splitLines splits on newlines and strips carriage returns; the
// frontend emits CRLF.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
