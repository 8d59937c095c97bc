package report

import (
	"sort"
	"strings"
	"time"

	"ppms/internal/models"
)

// ExpenseItem represents an expense in the history view.
type ExpenseItem struct {
	models.Expense
	Time string
}

// ExpenseGroup groups expenses by date.
type ExpenseGroup struct {
	Title string
	Date  string
	Total float64
	Items []ExpenseItem
}

// HistoryViewModel is the data behind an employee's own history.
type HistoryViewModel struct {
	Total  float64
	Count  int
	Groups []ExpenseGroup
}

// History groups expenses by calendar day in now's location, newest day
// first. Items keep ledger order inside a day.
func History(expenses []models.Expense, now time.Time) HistoryViewModel {
	loc := now.Location()
	groupsMap := make(map[string]*ExpenseGroup)
	var vm HistoryViewModel

	for _, e := range expenses {
		d := e.Date.In(loc)
		dateStr := d.Format("2006-01-02")
		if _, ok := groupsMap[dateStr]; !ok {
			groupsMap[dateStr] = &ExpenseGroup{Date: dateStr, Title: formatGroupTitle(d, now)}
		}
		group := groupsMap[dateStr]
		group.Total += e.Amount
		vm.Total += e.Amount
		vm.Count++

		group.Items = append(group.Items, ExpenseItem{
			Expense: e,
			Time:    d.Format("15:04"),
		})
	}

	vm.Groups = make([]ExpenseGroup, 0, len(groupsMap))
	for _, g := range groupsMap {
		vm.Groups = append(vm.Groups, *g)
	}
	sort.Slice(vm.Groups, func(i, j int) bool { return vm.Groups[i].Date > vm.Groups[j].Date })
	return vm
}

func formatGroupTitle(date, now time.Time) string {
	dateStr := date.Format("2006-01-02")

	if dateStr == now.Format("2006-01-02") {
		return "TODAY"
	}
	if dateStr == now.AddDate(0, 0, -1).Format("2006-01-02") {
		return "YESTERDAY"
	}
	return strings.ToUpper(date.Format("Mon, 02 Jan '06"))
}
