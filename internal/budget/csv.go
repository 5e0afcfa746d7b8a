package budget

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// WriteBreakdownCSV writes the per-stream breakdown to path.
func WriteBreakdownCSV(path string, rows []BreakdownRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return EncodeBreakdownCSV(f, rows)
}

// EncodeBreakdownCSV writes the breakdown with a header row.
func EncodeBreakdownCSV(out io.Writer, rows []BreakdownRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"id",
		"name",
		"projected",
		"potential",
		"share",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{
			r.ID,
			r.Name,
			strconv.FormatInt(r.Projected, 10),
			strconv.FormatInt(r.Potential, 10),
			fmtFloat(r.Share),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
