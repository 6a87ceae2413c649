package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"bizbook/internal/model"
	"bizbook/internal/repository"
	"bizbook/internal/utils"

	"github.com/shopspring/decimal"
)

var ErrInvalidDateRange = errors.New("start date must not be after end date")

// ReportService computes the read-only reports: cash flow (payment-effective
// dates), income/expense (nominal dates), inventory and the dashboard.
type ReportService interface {
	CashFlowReport(ctx context.Context, accountID int, start, end time.Time) (*model.CashFlowReport, error)
	IncomeExpenseReport(ctx context.Context, accountID int, start, end time.Time) (*model.IncomeExpenseReport, error)
	ExportCashFlowCSV(ctx context.Context, accountID int, start, end time.Time) (*bytes.Buffer, error)
	InventoryReport(ctx context.Context, accountID int) (*model.InventoryReport, error)
	Dashboard(ctx context.Context, accountID int, now time.Time) (*model.DashboardSummary, error)
}

type reportService struct {
	ledger repository.LedgerRepository
	items  repository.ItemRepository
}

// NewReportService creates a new ReportService
func NewReportService(ledger repository.LedgerRepository, items repository.ItemRepository) ReportService {
	return &reportService{ledger: ledger, items: items}
}

// openingBalance sums qualifying income minus expenses over events that were
// cash before the report start. Events without an effective date never count.
func openingBalance(income []model.IncomeEvent, expenses []model.ExpenseEvent) decimal.Decimal {
	balance := decimal.Zero
	for _, ev := range income {
		if _, ok := ev.EffectiveDate(); ok {
			balance = balance.Add(ev.Amount)
		}
	}
	for _, ev := range expenses {
		if _, ok := ev.EffectiveDate(); ok {
			balance = balance.Sub(ev.Amount)
		}
	}
	return balance
}

// dailyCashTotals buckets events by the calendar date of their effective
// date. Days with no activity have no entry; the walker fills the gaps.
func dailyCashTotals(income []model.IncomeEvent, expenses []model.ExpenseEvent) (map[string]decimal.Decimal, map[string]decimal.Decimal) {
	cashIn := make(map[string]decimal.Decimal)
	cashOut := make(map[string]decimal.Decimal)
	for _, ev := range income {
		if eff, ok := ev.EffectiveDate(); ok {
			key := utils.DayKey(eff)
			cashIn[key] = cashIn[key].Add(ev.Amount)
		}
	}
	for _, ev := range expenses {
		if eff, ok := ev.EffectiveDate(); ok {
			key := utils.DayKey(eff)
			cashOut[key] = cashOut[key].Add(ev.Amount)
		}
	}
	return cashIn, cashOut
}

// walkRunningBalance emits one row per calendar day from start to end
// inclusive, carrying the balance forward. The walk is strictly sequential:
// each day's balance depends on the previous one.
func walkRunningBalance(start, end time.Time, opening decimal.Decimal, cashIn, cashOut map[string]decimal.Decimal) []model.DailyCashRow {
	days := utils.DaysBetween(start, end)
	rows := make([]model.DailyCashRow, 0, days)
	balance := opening
	day := utils.StartOfDay(start)
	for i := 0; i < days; i++ {
		key := utils.DayKey(day)
		in := cashIn[key]   // zero value when absent
		out := cashOut[key] // zero value when absent
		balance = balance.Add(in).Sub(out)
		rows = append(rows, model.DailyCashRow{
			Date:           key,
			CashIn:         in,
			CashOut:        out,
			RunningBalance: balance,
		})
		day = day.AddDate(0, 0, 1)
	}
	return rows
}

// CashFlowReport builds the cash-view report for an inclusive date range.
func (s *reportService) CashFlowReport(ctx context.Context, accountID int, start, end time.Time) (*model.CashFlowReport, error) {
	start = utils.StartOfDay(start)
	end = utils.EndOfDay(end)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	incomeBefore, err := s.ledger.IncomeEventsBefore(ctx, accountID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load income before range: %w", err)
	}
	expenseBefore, err := s.ledger.ExpenseEventsBefore(ctx, accountID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses before range: %w", err)
	}
	income, err := s.ledger.IncomeEventsBetween(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load income in range: %w", err)
	}
	expenses, err := s.ledger.ExpenseEventsBetween(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses in range: %w", err)
	}

	opening := openingBalance(incomeBefore, expenseBefore)
	cashIn, cashOut := dailyCashTotals(income, expenses)
	daily := walkRunningBalance(start, end, opening, cashIn, cashOut)

	summary := model.CashFlowSummary{
		OpeningBalance:         opening,
		TotalInflow:            decimal.Zero,
		TotalOutflow:           decimal.Zero,
		InflowByPaymentMethod:  make(map[string]decimal.Decimal),
		OutflowByPaymentMethod: make(map[string]decimal.Decimal),
	}

	inflows := make([]model.InflowTransaction, 0, len(income))
	for _, ev := range income {
		eff, ok := ev.EffectiveDate()
		if !ok {
			continue
		}
		method := ev.EffectiveMethod()
		summary.TotalInflow = summary.TotalInflow.Add(ev.Amount)
		summary.InflowByPaymentMethod[method] = summary.InflowByPaymentMethod[method].Add(ev.Amount)

		source := "Sale"
		if ev.CustomerName != nil {
			source = *ev.CustomerName
		}
		number := ev.EstimateNumber
		inflows = append(inflows, model.InflowTransaction{
			Date:           utils.DayKey(eff),
			Source:         source,
			EstimateNumber: &number,
			PaymentMethod:  method,
			Amount:         ev.Amount,
		})
	}

	outflows := make([]model.OutflowTransaction, 0, len(expenses))
	for _, ev := range expenses {
		eff, ok := ev.EffectiveDate()
		if !ok {
			continue
		}
		method := ev.EffectiveMethod()
		summary.TotalOutflow = summary.TotalOutflow.Add(ev.Amount)
		summary.OutflowByPaymentMethod[method] = summary.OutflowByPaymentMethod[method].Add(ev.Amount)

		purpose := "Purchase"
		if ev.SupplierName != nil {
			purpose = *ev.SupplierName
		}
		number := ev.BillNumber
		outflows = append(outflows, model.OutflowTransaction{
			Date:          utils.DayKey(eff),
			Purpose:       purpose,
			BillNumber:    &number,
			PaymentMethod: method,
			Amount:        ev.Amount,
		})
	}

	summary.NetCashFlow = summary.TotalInflow.Sub(summary.TotalOutflow)
	summary.ClosingBalance = summary.OpeningBalance.Add(summary.NetCashFlow)

	return &model.CashFlowReport{
		Summary:             summary,
		DailyBreakdown:      daily,
		InflowTransactions:  inflows,
		OutflowTransactions: outflows,
	}, nil
}

// IncomeExpenseReport builds the accrual-view report: estimates by sale date
// and purchases by purchase date, whether or not cash has moved.
func (s *reportService) IncomeExpenseReport(ctx context.Context, accountID int, start, end time.Time) (*model.IncomeExpenseReport, error) {
	start = utils.StartOfDay(start)
	end = utils.EndOfDay(end)
	if start.After(end) {
		return nil, ErrInvalidDateRange
	}

	estimates, err := s.ledger.AccrualEstimatesBetween(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load accrual estimates: %w", err)
	}
	purchases, err := s.ledger.AccrualPurchasesBetween(ctx, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load accrual purchases: %w", err)
	}

	summary := model.IncomeExpenseSummary{}
	incomeByDay := make(map[string]decimal.Decimal)
	expenseByDay := make(map[string]decimal.Decimal)

	incomeTxs := make([]model.IncomeTransaction, 0, len(estimates))
	for _, e := range estimates {
		summary.TotalIncome = summary.TotalIncome.Add(e.Total)
		summary.TaxCollected = summary.TaxCollected.Add(e.TaxAmount)
		summary.DiscountGiven = summary.DiscountGiven.Add(e.DiscountAmount)

		key := utils.DayKey(e.EstimateDate)
		incomeByDay[key] = incomeByDay[key].Add(e.Total)

		source := "Sale"
		if e.CustomerName != nil {
			source = *e.CustomerName
		}
		number := e.EstimateNumber
		incomeTxs = append(incomeTxs, model.IncomeTransaction{
			Date:           key,
			Source:         source,
			EstimateNumber: &number,
			Amount:         e.Total,
			TaxAmount:      e.TaxAmount,
			DiscountAmount: e.DiscountAmount,
		})
	}

	expenseTxs := make([]model.ExpenseTransaction, 0, len(purchases))
	for _, p := range purchases {
		summary.TotalExpenses = summary.TotalExpenses.Add(p.Total)

		key := utils.DayKey(p.PurchaseDate)
		expenseByDay[key] = expenseByDay[key].Add(p.Total)

		purpose := "Purchase"
		if p.SupplierName != nil {
			purpose = *p.SupplierName
		}
		number := p.BillNumber
		expenseTxs = append(expenseTxs, model.ExpenseTransaction{
			Date:       key,
			Purpose:    purpose,
			BillNumber: &number,
			Amount:     p.Total,
		})
	}

	summary.NetProfit = summary.TotalIncome.Sub(summary.TotalExpenses)

	days := utils.DaysBetween(start, end)
	daily := make([]model.DailyAccrualRow, 0, days)
	day := utils.StartOfDay(start)
	for i := 0; i < days; i++ {
		key := utils.DayKey(day)
		income := incomeByDay[key]
		expense := expenseByDay[key]
		daily = append(daily, model.DailyAccrualRow{
			Date:     key,
			Income:   income,
			Expenses: expense,
			Profit:   income.Sub(expense),
		})
		day = day.AddDate(0, 0, 1)
	}

	return &model.IncomeExpenseReport{
		Summary:             summary,
		DailyBreakdown:      daily,
		IncomeTransactions:  incomeTxs,
		ExpenseTransactions: expenseTxs,
	}, nil
}

// ExportCashFlowCSV renders the cash-flow daily breakdown as CSV.
func (s *reportService) ExportCashFlowCSV(ctx context.Context, accountID int, start, end time.Time) (*bytes.Buffer, error) {
	report, err := s.CashFlowReport(ctx, accountID, start, end)
	if err != nil {
		return nil, err
	}

	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"Date", "CashIn", "CashOut", "RunningBalance"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range report.DailyBreakdown {
		record := []string{row.Date, row.CashIn.String(), row.CashOut.String(), row.RunningBalance.String()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}

	return buffer, nil
}

// InventoryReport lists current stock with values and low-stock flags.
func (s *reportService) InventoryReport(ctx context.Context, accountID int) (*model.InventoryReport, error) {
	items, err := s.items.FindByUser(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for inventory report: %w", err)
	}

	report := &model.InventoryReport{
		TotalItems: len(items),
		StockValue: decimal.Zero,
		Items:      make([]model.InventoryReportRow, 0, len(items)),
	}
	for _, item := range items {
		value := item.Stock.Mul(item.PurchasePrice)
		low := item.Stock.Cmp(item.LowStockThreshold) <= 0
		if low {
			report.LowStockCount++
		}
		report.StockValue = report.StockValue.Add(value)
		report.Items = append(report.Items, model.InventoryReportRow{
			ItemID:     item.ID,
			Name:       item.Name,
			SKU:        item.SKU,
			Unit:       item.Unit,
			Stock:      item.Stock,
			StockValue: value,
			LowStock:   low,
		})
	}
	return report, nil
}

// Dashboard summarises the current month plus outstanding balances.
func (s *reportService) Dashboard(ctx context.Context, accountID int, now time.Time) (*model.DashboardSummary, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := utils.EndOfDay(now)

	estimates, err := s.ledger.AccrualEstimatesBetween(ctx, accountID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load month estimates: %w", err)
	}
	purchases, err := s.ledger.AccrualPurchasesBetween(ctx, accountID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load month purchases: %w", err)
	}
	receivables, err := s.ledger.PendingReceivables(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending receivables: %w", err)
	}
	payables, err := s.ledger.PendingPayables(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending payables: %w", err)
	}
	lowStock, err := s.items.FindLowStock(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load low stock items: %w", err)
	}

	summary := &model.DashboardSummary{
		PendingReceivables: receivables,
		PendingPayables:    payables,
		LowStockItems:      len(lowStock),
	}
	for _, e := range estimates {
		summary.MonthIncome = summary.MonthIncome.Add(e.Total)
	}
	for _, p := range purchases {
		summary.MonthExpenses = summary.MonthExpenses.Add(p.Total)
	}
	summary.MonthProfit = summary.MonthIncome.Sub(summary.MonthExpenses)
	return summary, nil
}
