package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/Noelithub77/bunkialo2-sub002/internal/models"
	"github.com/Noelithub77/bunkialo2-sub002/internal/utils"
)

const (
	slotsSheet = "Timetable"
	weekSheet  = "Week"
)

var slotHeader = []string{"Day", "Start", "End", "Course", "Course ID", "Type", "Source"}

// WriteXLSX writes a workbook with one row per slot and a week grid of
// days against start times.
func WriteXLSX(w io.Writer, slots []models.TimetableSlot) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(slotsSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSlotSheet(f, slots, headerStyle); err != nil {
		return err
	}
	if err := writeWeekSheet(f, slots, headerStyle); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSlotSheet(f *excelize.File, slots []models.TimetableSlot, headerStyle int) error {
	for i, h := range slotHeader {
		if err := f.SetCellValue(slotsSheet, cell(i, 1), h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(slotsSheet, cell(0, 1), cell(len(slotHeader)-1, 1), headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(slotsSheet, "A", "C", 8)
	_ = f.SetColWidth(slotsSheet, "D", "D", 32)
	_ = f.SetColWidth(slotsSheet, "E", "G", 14)

	for r, slot := range slots {
		row := []interface{}{
			utils.ShortWeekday(slot.DayOfWeek),
			slot.StartTime,
			slot.EndTime,
			slot.CourseName,
			slot.CourseID,
			string(slot.SessionType),
			string(slot.Provenance()),
		}
		for c, v := range row {
			if err := f.SetCellValue(slotsSheet, cell(c, r+2), v); err != nil {
				return err
			}
		}
	}
	return f.SetPanes(slotsSheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	})
}

// writeWeekSheet lays slots out with Monday..Sunday as columns and one row
// per distinct start time. Slots sharing a cell are joined by newlines.
func writeWeekSheet(f *excelize.File, slots []models.TimetableSlot, headerStyle int) error {
	if _, err := f.NewSheet(weekSheet); err != nil {
		return err
	}
	days := []int{1, 2, 3, 4, 5, 6, 0}

	var starts []string
	seen := map[string]bool{}
	cells := map[string]string{}
	for _, s := range slots {
		if !seen[s.StartTime] {
			seen[s.StartTime] = true
			starts = append(starts, s.StartTime)
		}
		key := fmt.Sprintf("%d|%s", s.DayOfWeek, s.StartTime)
		text := fmt.Sprintf("%s\n%s-%s", s.CourseName, s.StartTime, s.EndTime)
		if prev, ok := cells[key]; ok {
			text = prev + "\n" + text
		}
		cells[key] = text
	}
	sort.Strings(starts)

	if err := f.SetCellValue(weekSheet, cell(0, 1), "Start"); err != nil {
		return err
	}
	for i, d := range days {
		if err := f.SetCellValue(weekSheet, cell(i+1, 1), utils.ShortWeekday(d)); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(weekSheet, cell(0, 1), cell(len(days), 1), headerStyle); err != nil {
		return err
	}
	_ = f.SetColWidth(weekSheet, "B", "H", 24)

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return err
	}
	for r, start := range starts {
		if err := f.SetCellValue(weekSheet, cell(0, r+2), start); err != nil {
			return err
		}
		for i, d := range days {
			if text, ok := cells[fmt.Sprintf("%d|%s", d, start)]; ok {
				if err := f.SetCellValue(weekSheet, cell(i+1, r+2), text); err != nil {
					return err
				}
			}
		}
	}
	if len(starts) > 0 {
		return f.SetCellStyle(weekSheet, cell(1, 2), cell(len(days), len(starts)+1), wrap)
	}
	return nil
}

// cell converts a zero-based column and one-based row to an A1 reference.
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
