package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/cinemaster/cinemaster-api/internal/domain"
)

// Seat numbers must be canonical: no leading zeros, or "C07" and "C7" would
// name the same physical seat under two different strings and slip past the
// conflict checks.
var seatLabelRgx = regexp.MustCompile(`^([A-Z]+)([1-9][0-9]*)$`)

// RowLabel returns the label of the zero-based row index: A..Z, then AA, AB
// and so on, spreadsheet style.
func RowLabel(row int) string {
	var sb strings.Builder

	for row >= 0 {
		sb.WriteByte(byte('A' + row%26))
		row = row/26 - 1
	}

	// Letters come out least significant first, reverse them.
	b := []byte(sb.String())
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}

	return string(b)
}

// SeatLabels enumerates every seat of a rows x seatsPerRow grid in row-major
// order: A1..A<n>, B1..B<n>, ...
func SeatLabels(rows, seatsPerRow int) []string {
	labels := make([]string, 0, rows*seatsPerRow)

	for r := 0; r < rows; r++ {
		row := RowLabel(r)
		for n := 1; n <= seatsPerRow; n++ {
			labels = append(labels, fmt.Sprintf("%s%d", row, n))
		}
	}

	return labels
}

// ParseSeatLabel splits a label like "C7" into its zero-based row index and
// one-based seat number. It returns domain.ErrInvalidSeatLabel for anything
// that is not uppercase letters followed by a canonical seat number.
func ParseSeatLabel(label string) (row int, number int, err error) {
	m := seatLabelRgx.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidSeatLabel, label)
	}

	row = 0
	for _, ch := range m[1] {
		row = row*26 + int(ch-'A') + 1
	}
	row--

	number, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidSeatLabel, label)
	}

	return row, number, nil
}

// ValidateSeatLabel checks that a label is syntactically valid and falls
// inside the given grid.
func ValidateSeatLabel(label string, rows, seatsPerRow int) error {
	row, number, err := ParseSeatLabel(label)
	if err != nil {
		return err
	}

	if row >= rows || number > seatsPerRow {
		return fmt.Errorf("%w: %q is outside the %dx%d seat grid", domain.ErrInvalidSeatLabel, label, rows, seatsPerRow)
	}

	return nil
}
