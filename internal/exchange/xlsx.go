package exchange

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"room-occupancy-backend/internal/model"
)

const (
	// SpreadsheetFileName is the download name of the XLSX export.
	SpreadsheetFileName = "ocupacoes_salas_senac.xlsx"

	OccupationsSheet = "Ocupações"
	ConflictsSheet   = "Conflitos"
)

var occupationHeader = []any{
	"ID", "Sala", "Curso", "Turma", "Instrutor", "Turno", "Dia",
	"Início", "Fim", "Data inicial", "Data final", "Unidade",
}

var conflictHeader = []any{
	"Sala", "Dia", "Turno", "Motivo", "ID", "Curso", "Turma", "Instrutor", "Horário",
}

func occupationRow(o model.Occupation) []any {
	return []any{
		o.ID, o.Room, o.Course, o.ClassGroup, o.Instructor, string(o.Shift), string(o.Weekday),
		o.StartTime, o.EndTime, o.StartDate, o.EndDate, o.Unit,
	}
}

// WriteXLSX renders the occupations and conflicts into a two-sheet workbook.
// The conflicts sheet holds one row per occupation involved in a conflict.
func WriteXLSX(w io.Writer, occs []model.Occupation, conflicts []model.Conflict) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", OccupationsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(ConflictsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	rows := make([][]any, 0, len(occs))
	for _, o := range occs {
		rows = append(rows, occupationRow(o))
	}
	if err := writeSheet(f, OccupationsSheet, occupationHeader, rows, headerStyle); err != nil {
		return err
	}

	rows = rows[:0]
	for _, c := range conflicts {
		for _, o := range c.OccupationsInvolved {
			rows = append(rows, []any{
				c.Room, string(c.Weekday), string(c.Shift), c.Reason,
				o.ID, o.Course, o.ClassGroup, o.Instructor, o.StartTime + "-" + o.EndTime,
			})
		}
	}
	if err := writeSheet(f, ConflictsSheet, conflictHeader, rows, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+2, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	return f.SetColWidth(sheet, "A", lastCol, 18)
}
