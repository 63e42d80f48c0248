package core

// Summary aggregates a set of expenses for the list view.
type Summary struct {
	Count int
	Total Money
}

// Summarize computes the record count and the amount total.
func Summarize(expenses []Expense) Summary {
	s := Summary{Count: len(expenses)}
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
	}
	return s
}
