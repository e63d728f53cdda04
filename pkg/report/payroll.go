// Package report renders assignment data into spreadsheets.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"farmwork/entities"
)

const PayrollSheet = "Payroll"

var payrollHeader = []any{
	"Assignment ID", "Work Date", "Worker", "Land Plot", "Task", "Crop",
	"Start (UTC)", "End (UTC)", "Hours", "Hourly Rate", "Amount", "Status", "Payment",
}

// WritePayroll writes one row per assignment plus a totals row. Cancelled
// assignments are listed but contribute nothing to the totals.
func WritePayroll(w io.Writer, rows []entities.Assignment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", PayrollSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(PayrollSheet, "A1", &payrollHeader); err != nil {
		return err
	}

	var hours, amount float64
	for i := range rows {
		a := &rows[i]
		h, amt := round2(a.Hours()), round2(a.Amount())
		if a.Status != entities.StatusCancelled {
			hours += h
			amount += amt
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			a.ID, a.WorkDate, workerName(a), plotName(a), a.Task, deref(a.CropType),
			a.StartTime.UTC().Format("15:04"), a.EndTime.UTC().Format("15:04"),
			h, a.HourlyRate, amt, string(a.Status), string(a.PaymentStatus),
		}
		if err := f.SetSheetRow(PayrollSheet, cell, &row); err != nil {
			return err
		}
	}

	totalCell, err := excelize.CoordinatesToCellName(1, len(rows)+2)
	if err != nil {
		return err
	}
	total := []any{"TOTAL", "", "", "", "", "", "", "", round2(hours), "", round2(amount)}
	if err := f.SetSheetRow(PayrollSheet, totalCell, &total); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write payroll: %w", err)
	}
	return nil
}

func workerName(a *entities.Assignment) string {
	if a.Worker != nil && a.Worker.Name != "" {
		return a.Worker.Name
	}
	return a.WorkerID
}

func plotName(a *entities.Assignment) string {
	if a.LandPlot != nil && a.LandPlot.Name != "" {
		return a.LandPlot.Name
	}
	return a.LandPlotID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
