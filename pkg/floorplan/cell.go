package floorplan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	ferrors "github.com/matzehuels/floorplan/pkg/errors"
)

var cellPattern = regexp.MustCompile(`^([A-Za-z]+)([0-9]+)$`)

// maxColumnLetters bounds the column part so the base-26 value fits an int.
const maxColumnLetters = 6

// ParseCell parses a spreadsheet-style cell reference such as "B3" or "AA12".
//
// Columns are letters in bijective base 26 (A=0, Z=25, AA=26); rows are
// 1-indexed in the input and 0-indexed in the result. Surrounding whitespace
// is ignored and letters are case-insensitive.
func ParseCell(s string) (x, y int, err error) {
	s = strings.TrimSpace(s)
	m := cellPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid cell %q (expected letters followed by a row number, e.g. B3)", s)
	}
	letters, digits := strings.ToUpper(m[1]), m[2]
	if len(letters) > maxColumnLetters {
		return 0, 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid cell %q: column too large", s)
	}

	col := 0
	for _, r := range letters {
		col = col*26 + int(r-'A') + 1
	}

	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, ferrors.Wrap(ferrors.ErrCodeMalformedInput, err, "invalid cell %q", s)
	}
	if row < 1 {
		return 0, 0, ferrors.New(ferrors.ErrCodeMalformedInput, "invalid cell %q: rows start at 1", s)
	}
	return col - 1, row - 1, nil
}

// FormatCell is the inverse of [ParseCell]. Negative coordinates, which have
// no letter form, are rendered as "(x,y)".
func FormatCell(x, y int) string {
	if x < 0 || y < 0 {
		return fmt.Sprintf("(%d,%d)", x, y)
	}
	return ColumnName(x) + strconv.Itoa(y+1)
}

// ColumnName returns the letter name of column x (0 → "A", 26 → "AA").
func ColumnName(x int) string {
	if x < 0 {
		return "?"
	}
	var buf [16]byte
	i := len(buf)
	for n := x + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}
