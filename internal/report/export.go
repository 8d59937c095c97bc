package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"ppms/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var csvHeader = []string{"Date", "Employee Name", "Reason", "Amount (INR)"}

// csvDateLayout matches the day, short month, year and clock shown in the
// employee detail view.
const csvDateLayout = "02 Jan 2006, 03:04 PM"

var inr = message.NewPrinter(language.MustParse("en-IN"))

// WriteCSV writes expenses as CSV with the employee's current name on every
// row. Dates are rendered in loc.
func WriteCSV(w io.Writer, employeeName string, expenses []models.Expense, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range expenses {
		row := []string{
			e.Date.In(loc).Format(csvDateLayout),
			employeeName,
			e.Reason,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVFileName derives the export file name from an employee name.
func CSVFileName(employeeName string) string {
	return strings.Join(strings.Fields(employeeName), "_") + "_expenses.csv"
}

// FormatINR renders an amount with Indian digit grouping, e.g. "₹ 4,500".
func FormatINR(amount float64) string {
	return inr.Sprintf("₹ %v", number.Decimal(amount, number.MaxFractionDigits(2)))
}
