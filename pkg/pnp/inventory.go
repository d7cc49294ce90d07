package pnp

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/newtron-network/pnpclaim/pkg/util"
)

// Required inventory columns.
const (
	ColName         = "name"
	ColSerial       = "serial"
	ColPID          = "pid"
	ColSiteName     = "siteName"
	ColTemplateName = "templateName"
)

var requiredColumns = []string{ColName, ColSerial, ColPID, ColSiteName, ColTemplateName}

// Row is one device of the inventory. Values holds every column of the
// record, the required ones included, keyed by header name; it is the
// source for template parameters.
type Row struct {
	Line         int
	Name         string
	Serial       string
	PID          string
	SiteName     string
	TemplateName string
	Values       map[string]string
}

// ReadInventory loads a device inventory CSV file.
func ReadInventory(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory %q: %w", path, err)
	}
	defer f.Close()

	rows, err := ParseInventory(f)
	if err != nil {
		return nil, fmt.Errorf("inventory %q: %w", path, err)
	}
	return rows, nil
}

// ParseInventory reads a header row followed by device records. Rows are
// returned in file order. Records shorter than the header carry the
// trailing columns as empty values.
func ParseInventory(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, util.NewValidationError("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}
		line, _ := cr.FieldPos(0)

		values := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				values[col] = rec[i]
			} else {
				values[col] = ""
			}
		}
		rows = append(rows, Row{
			Line:         line,
			Name:         values[ColName],
			Serial:       values[ColSerial],
			PID:          values[ColPID],
			SiteName:     values[ColSiteName],
			TemplateName: values[ColTemplateName],
			Values:       values,
		})
	}
	return rows, nil
}

func validateHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	v := &util.ValidationBuilder{}
	for _, col := range requiredColumns {
		v.Add(present[col], fmt.Sprintf("missing required column %q", col))
	}
	return v.Build()
}
