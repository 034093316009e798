package render

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"
)

// AttendanceRow is one check-in record as exported.
type AttendanceRow struct {
	Date        string
	StudentName string
	CheckIn     string
	CheckOut    string
	PickedUpBy  string
	LatePickup  bool
}

const summarySheet = "Summary"

var attendanceHeader = []interface{}{"Date", "Student", "Check-in", "Check-out", "Picked up by", "Late pickup"}

// AttendanceWorkbook writes a month of attendance: one detail sheet named after
// the month and a summary sheet with days present per student.
func AttendanceWorkbook(month string, rows []AttendanceRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", month); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(month, "A1", &attendanceHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(month, "A1", "F1", bold); err != nil {
		return nil, err
	}

	days := make(map[string]int)
	late := make(map[string]int)
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		lateMark := ""
		if r.LatePickup {
			lateMark = "yes"
			late[r.StudentName]++
		}
		values := []interface{}{r.Date, r.StudentName, r.CheckIn, r.CheckOut, r.PickedUpBy, lateMark}
		if err := f.SetSheetRow(month, cell, &values); err != nil {
			return nil, err
		}
		days[r.StudentName]++
	}
	_ = f.SetColWidth(month, "B", "B", 28)
	_ = f.SetColWidth(month, "C", "D", 12)
	_ = f.SetColWidth(month, "E", "E", 24)

	summaryHeader := []interface{}{"Student", "Days present", "Late pickups"}
	if err := f.SetSheetRow(summarySheet, "A1", &summaryHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "C1", bold); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(days))
	for n := range days {
		names = append(names, n)
	}
	sort.Strings(names)
	for i, n := range names {
		values := []interface{}{n, days[n], late[n]}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 28)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
