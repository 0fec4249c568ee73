// Package export writes the request ledger as CSV or XLSX.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/stemsi/bonafide-backend/internal/model"
	"github.com/xuri/excelize/v2"
)

// ErrNothingToExport is returned when the ledger slice is empty.
var ErrNothingToExport = errors.New("no data to export")

// Columns is the fixed header of every export.
var Columns = []string{
	"Request ID",
	"Student Name",
	"Roll Number",
	"Department",
	"Course",
	"Purpose",
	"Academic Year",
	"Student Year",
	"Status",
	"Request Date",
	"Processed Date",
	"Processed By",
}

const (
	notAvailable = "N/A"
	dateLayout   = "2006-01-02 15:04:05"
	sheetName    = "Requests"
)

// Filename returns the download name for an export taken at now.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("bonafide-requests-export-%s.%s", now.UTC().Format("2006-01-02"), ext)
}

// Row flattens a request into the export columns. The student, if attached,
// supplies name, roll number, department and course.
func Row(r *model.BonafideRequest) []string {
	name, roll, dept, course := notAvailable, notAvailable, notAvailable, notAvailable
	if s := r.Student; s != nil {
		name = orNA(s.FullName())
		roll = orNA(s.RollNo)
		dept = orNA(s.Department)
		course = orNA(s.Course)
	}

	processedDate, processedBy := notAvailable, notAvailable
	if r.ProcessedDate != nil {
		processedDate = r.ProcessedDate.UTC().Format(dateLayout)
	}
	if r.ProcessedBy != nil {
		processedBy = orNA(*r.ProcessedBy)
	}

	return []string{
		r.ID,
		name,
		roll,
		dept,
		course,
		r.Purpose,
		r.AcademicYear,
		r.Year,
		string(r.Status),
		r.RequestDate.UTC().Format(dateLayout),
		processedDate,
		processedBy,
	}
}

// WriteCSV writes the header and one row per request.
func WriteCSV(w io.Writer, requests []model.BonafideRequest) error {
	if len(requests) == 0 {
		return ErrNothingToExport
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range requests {
		if err := cw.Write(Row(&requests[i])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single "Requests" sheet.
func WriteXLSX(w io.Writer, requests []model.BonafideRequest) error {
	if len(requests) == 0 {
		return ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(Columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 22); err != nil {
		return fmt.Errorf("set widths: %w", err)
	}

	for i := range requests {
		values := Row(&requests[i])
		row := make([]interface{}, len(values))
		for j, v := range values {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
