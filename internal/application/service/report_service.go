package service

import (
	"context"
	"sort"
	"time"

	"github.com/sangkips/trimtime-pos/internal/domain/repository"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

// StaffCommission is one row of the commission report
type StaffCommission struct {
	StaffID        string          `json:"staff_id"`
	Name           string          `json:"name"`
	SalesCount     int             `json:"sales_count"`
	Revenue        decimal.Decimal `json:"revenue"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	Commission     decimal.Decimal `json:"commission"`
}

// CommissionReport summarises revenue and commission earned in a period
type CommissionReport struct {
	From            string            `json:"from"`
	To              string            `json:"to"`
	SalesCount      int               `json:"sales_count"`
	TotalRevenue    decimal.Decimal   `json:"total_revenue"`
	TotalCommission decimal.Decimal   `json:"total_commission"`
	Staff           []StaffCommission `json:"staff"`
}

// CategoryTotal is the amount spent in one expense category
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// PeriodSummary is the profit and loss of a period
type PeriodSummary struct {
	From         string          `json:"from"`
	To           string          `json:"to"`
	SalesCount   int             `json:"sales_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	Tax          decimal.Decimal `json:"tax"`
	ExpenseCount int             `json:"expense_count"`
	Expenses     decimal.Decimal `json:"expenses"`
	NetProfit    decimal.Decimal `json:"net_profit"`
	ByCategory   []CategoryTotal `json:"by_category"`
}

// ReportService computes reports from the remote sales log and the expense ledger
type ReportService struct {
	saleRepo repository.SaleRepository
	staff    *StaffService
	expenses *ExpenseService
}

// NewReportService creates a new report service
func NewReportService(saleRepo repository.SaleRepository, staff *StaffService, expenses *ExpenseService) *ReportService {
	return &ReportService{saleRepo: saleRepo, staff: staff, expenses: expenses}
}

// dayRange turns two calendar days, both inclusive, into [start, end)
func dayRange(from, to time.Time) (time.Time, time.Time, error) {
	start := truncateDay(from)
	end := truncateDay(to).AddDate(0, 0, 1)
	if !end.After(start) {
		return start, end, apperror.NewValidationError([]apperror.FieldError{
			{Field: "to", Message: "End date must not be before start date"},
		})
	}
	return start, end, nil
}

// Summary reports revenue, expenses and net profit between two calendar days, both inclusive
func (s *ReportService) Summary(ctx context.Context, from, to time.Time) (*PeriodSummary, error) {
	start, end, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	summary := &PeriodSummary{
		From:       start.Format("2006-01-02"),
		To:         truncateDay(to).Format("2006-01-02"),
		Revenue:    decimal.Zero,
		Tax:        decimal.Zero,
		Expenses:   decimal.Zero,
		ByCategory: []CategoryTotal{},
	}
	for _, sale := range sales {
		summary.SalesCount++
		summary.Revenue = summary.Revenue.Add(sale.Total)
		summary.Tax = summary.Tax.Add(sale.Tax)
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, e := range s.expenses.Between(start, end) {
		summary.ExpenseCount++
		summary.Expenses = summary.Expenses.Add(e.Amount)
		byCategory[e.Category] = byCategory[e.Category].Add(e.Amount)
	}
	for category, amount := range byCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		if c := summary.ByCategory[i].Amount.Cmp(summary.ByCategory[j].Amount); c != 0 {
			return c > 0
		}
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	summary.NetProfit = summary.Revenue.Sub(summary.Expenses)
	return summary, nil
}

// Commissions reports per-staff revenue between two calendar days, both inclusive
func (s *ReportService) Commissions(ctx context.Context, from, to time.Time) (*CommissionReport, error) {
	start, end, err := dayRange(from, to)
	if err != nil {
		return nil, err
	}

	sales, err := s.saleRepo.ListBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rows := make(map[string]*StaffCommission)
	report := &CommissionReport{
		From:            start.Format("2006-01-02"),
		To:              truncateDay(to).Format("2006-01-02"),
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
	}
	for _, sale := range sales {
		row, ok := rows[sale.StaffID]
		if !ok {
			row = &StaffCommission{StaffID: sale.StaffID, Name: "Unknown", Revenue: decimal.Zero, CommissionRate: decimal.Zero}
			if st, found := s.staff.Find(sale.StaffID); found {
				row.Name = st.Name
				row.CommissionRate = st.Commission
			}
			rows[sale.StaffID] = row
		}
		row.SalesCount++
		row.Revenue = row.Revenue.Add(sale.Total)
		report.SalesCount++
		report.TotalRevenue = report.TotalRevenue.Add(sale.Total)
	}

	hundred := decimal.NewFromInt(100)
	for _, row := range rows {
		row.Commission = row.Revenue.Mul(row.CommissionRate).Div(hundred).Round(2)
		report.TotalCommission = report.TotalCommission.Add(row.Commission)
		report.Staff = append(report.Staff, *row)
	}
	sort.Slice(report.Staff, func(i, j int) bool {
		if c := report.Staff[i].Revenue.Cmp(report.Staff[j].Revenue); c != 0 {
			return c > 0
		}
		return report.Staff[i].Name < report.Staff[j].Name
	})
	return report, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
