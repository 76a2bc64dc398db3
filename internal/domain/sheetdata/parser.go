package sheetdata

import (
	"math"
	"strconv"
	"strings"
)

// Column keywords matched against lowercased header cells.
const (
	keyName     = "name"
	keyClient   = "client"
	keyEmail    = "email"
	keyHeadshot = "headshot"
	keyPrice    = "price"
	keyStatus   = "status"
)

// Positional fallbacks used when no header matches.
const (
	posName = iota
	posEmail
	posHeadshots
	posPrice
	posStatus
)

// ParseRecords converts a comma-delimited export into client records.
//
// The first non-blank line is the header. Cells are split on every comma with no
// quoting support. Record IDs are the 1-based position of the row among the
// non-blank data lines, assigned before rows without a name are dropped, so the
// sequence can have gaps.
func ParseRecords(raw string) ([]ClientRecord, error) {
	lines := nonBlankLines(raw)
	if len(lines) == 0 {
		return nil, ErrMissingHeader
	}

	header := splitRow(lines[0])
	for i, h := range header {
		header[i] = strings.ToLower(h)
	}

	records := make([]ClientRecord, 0, len(lines)-1)
	for i, line := range lines[1:] {
		row := newRow(header, splitRow(line))

		rec := ClientRecord{
			ID:        strconv.Itoa(i + 1),
			Name:      firstNonEmpty(row.column(keyName), row.column(keyClient), row.at(posName)),
			Email:     firstNonEmpty(row.column(keyEmail), row.at(posEmail)),
			Headshots: parseLeadingInt(firstNonEmpty(row.column(keyHeadshot), row.at(posHeadshots), "0")),
			Price:     parseLeadingInt(firstNonEmpty(row.column(keyPrice), row.at(posPrice), "0")),
			Status:    NormalizeStatus(firstNonEmpty(row.column(keyStatus), row.at(posStatus), string(StatusPending))),
		}
		if rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

type row struct {
	header []string
	values []string
}

func newRow(header, values []string) row {
	return row{header: header, values: values}
}

// column returns the cell under the first header containing keyword.
func (r row) column(keyword string) string {
	for i, h := range r.header {
		if strings.Contains(h, keyword) {
			return r.at(i)
		}
	}
	return ""
}

func (r row) at(i int) string {
	if i < 0 || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

func nonBlankLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitRow(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseLeadingInt reads an optional sign followed by digits from the start of
// s, ignoring anything after them. A "0x" or "0X" prefix switches to hex digits.
// No digits yields 0. Values beyond the int range clamp to math.MinInt or
// math.MaxInt rather than losing precision.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	sign := s[:end]
	base, isDigit := 10, isDecimal
	if len(s) > end+1 && s[end] == '0' && (s[end+1] == 'x' || s[end+1] == 'X') {
		base, isDigit = 16, isHex
		end += 2
	}
	digitsStart := end
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == digitsStart {
		return 0
	}
	n, err := strconv.ParseInt(sign+s[digitsStart:end], base, strconv.IntSize)
	if err != nil {
		if sign == "-" {
			return math.MinInt
		}
		return math.MaxInt
	}
	return int(n)
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
