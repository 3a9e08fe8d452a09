package stimulus

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var csvHeader = []string{"t", "analog", "code", "overrange"}

// WriteCSV writes records to w with a header row.  The format matches
// what the lab's plotting scripts and the playback tools consume.
func WriteCSV(w io.Writer, recs []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	row := make([]string, 4)
	for _, r := range recs {
		row[0] = strconv.FormatFloat(r.T, 'G', -1, 64)
		row[1] = strconv.FormatFloat(r.Analog, 'G', -1, 64)
		row[2] = strconv.FormatInt(r.Code, 10)
		row[3] = strconv.FormatBool(r.Overrange)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads records in the WriteCSV format.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("stimulus: empty csv")
	}
	out := make([]Record, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 4 {
			return nil, errors.Errorf("stimulus: csv row %d: expected 4 fields, got %d", i+2, len(row))
		}
		var rec Record
		rec.T, err = strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "stimulus: csv row %d", i+2)
		}
		rec.Analog, err = strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "stimulus: csv row %d", i+2)
		}
		rec.Code, err = strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "stimulus: csv row %d", i+2)
		}
		rec.Overrange, err = strconv.ParseBool(row[3])
		if err != nil {
			return nil, errors.Wrapf(err, "stimulus: csv row %d", i+2)
		}
		out = append(out, rec)
	}
	return out, nil
}
