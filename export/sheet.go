// Package export renders ranked boards as spreadsheet and PDF result sheets.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Dosada05/stacking-tournament/models"
	"github.com/Dosada05/stacking-tournament/results"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

var ErrUnknownFormat = errors.New("unknown export format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatPDF:
		return f, nil
	case "":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (f Format) Ext() string { return string(f) }

// Sheet is everything a rendered results document shows.
type Sheet struct {
	Title  string
	Codes  []string
	Boards []results.Board
}

func NewSheet(t models.Tournament, e models.Event, boards []results.Board) Sheet {
	title := t.Name
	if e.ID != "" {
		title += " - " + string(e.Type) + " (" + e.ID + ")"
	}
	return Sheet{Title: title, Codes: results.DisplayCodes(e), Boards: boards}
}

// Header lists the column titles: rank, name, three attempts per code and
// the summed total.
func (s Sheet) Header() []string {
	h := []string{"Rank", "Name"}
	if len(s.Codes) == 1 {
		h = append(h, "Best", "Second", "Third")
	} else {
		for _, code := range s.Codes {
			h = append(h, code+" Best", code+" Second", code+" Third")
		}
	}
	return append(h, "Total")
}

// Cells formats one row in Header order.
func (s Sheet) Cells(row results.Row) []string {
	cells := []string{strconv.Itoa(row.Rank), displayName(row)}
	for _, code := range s.Codes {
		t := row.Times[code]
		cells = append(cells, t.Best.String(), t.Second.String(), t.Third.String())
	}
	return append(cells, row.BestTime.String())
}

func displayName(row results.Row) string {
	if len(row.Members) == 0 {
		return row.Name
	}
	return row.Name + " (" + strings.Join(row.Members, ", ") + ")"
}

// Render writes the sheet in the given format.
func Render(w io.Writer, format Format, s Sheet) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, s)
	case FormatPDF:
		return WritePDF(w, s)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
