package service

import (
	"context"
	"testing"
	"time"

	"bizbook/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t := date(s)
	return &t
}

func strPtr(s string) *string {
	return &s
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

// fakeLedgerRepo serves canned events, filtering by effective date the same
// way the SQL layer does.
type fakeLedgerRepo struct {
	income    []model.IncomeEvent
	expenses  []model.ExpenseEvent
	estimates []model.Estimate
	purchases []model.Purchase
}

func (f *fakeLedgerRepo) IncomeEventsBefore(_ context.Context, _ int, cutoff time.Time) ([]model.IncomeEvent, error) {
	var out []model.IncomeEvent
	for _, ev := range f.income {
		if eff, ok := ev.EffectiveDate(); ok && eff.Before(cutoff) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) IncomeEventsBetween(_ context.Context, _ int, start, end time.Time) ([]model.IncomeEvent, error) {
	var out []model.IncomeEvent
	for _, ev := range f.income {
		if eff, ok := ev.EffectiveDate(); ok && !eff.Before(start) && !eff.After(end) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ExpenseEventsBefore(_ context.Context, _ int, cutoff time.Time) ([]model.ExpenseEvent, error) {
	var out []model.ExpenseEvent
	for _, ev := range f.expenses {
		if eff, ok := ev.EffectiveDate(); ok && eff.Before(cutoff) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) ExpenseEventsBetween(_ context.Context, _ int, start, end time.Time) ([]model.ExpenseEvent, error) {
	var out []model.ExpenseEvent
	for _, ev := range f.expenses {
		if eff, ok := ev.EffectiveDate(); ok && !eff.Before(start) && !eff.After(end) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) AccrualEstimatesBetween(_ context.Context, _ int, start, end time.Time) ([]model.Estimate, error) {
	var out []model.Estimate
	for _, e := range f.estimates {
		if e.Status == model.EstimateStatusCompleted && !e.EstimateDate.Before(start) && !e.EstimateDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) AccrualPurchasesBetween(_ context.Context, _ int, start, end time.Time) ([]model.Purchase, error) {
	var out []model.Purchase
	for _, p := range f.purchases {
		if !p.PurchaseDate.Before(start) && !p.PurchaseDate.After(end) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeLedgerRepo) PendingReceivables(_ context.Context, _ int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ev := range f.income {
		if _, ok := ev.EffectiveDate(); !ok {
			total = total.Add(ev.Amount)
		}
	}
	return total, nil
}

func (f *fakeLedgerRepo) PendingPayables(_ context.Context, _ int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, ev := range f.expenses {
		if _, ok := ev.EffectiveDate(); !ok {
			total = total.Add(ev.Amount)
		}
	}
	return total, nil
}

// fakeItemRepo serves a fixed item list.
type fakeItemRepo struct {
	items []model.Item
}

func (f *fakeItemRepo) Create(_ context.Context, _ *model.Item) error { return nil }
func (f *fakeItemRepo) FindByID(_ context.Context, id int64, _ int) (*model.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, nil
}
func (f *fakeItemRepo) FindByUser(_ context.Context, _ int) ([]model.Item, error) {
	return f.items, nil
}
func (f *fakeItemRepo) Update(_ context.Context, _ *model.Item) error     { return nil }
func (f *fakeItemRepo) Delete(_ context.Context, _ int64, _ int) error    { return nil }
func (f *fakeItemRepo) AdjustStock(_ context.Context, _ int64, _ int, delta decimal.Decimal, _ string) (decimal.Decimal, error) {
	return delta, nil
}
func (f *fakeItemRepo) FindLowStock(_ context.Context, _ int) ([]model.Item, error) {
	var out []model.Item
	for _, item := range f.items {
		if item.Stock.Cmp(item.LowStockThreshold) <= 0 {
			out = append(out, item)
		}
	}
	return out, nil
}

func cashSale(id int64, day string, amount int64) model.IncomeEvent {
	return model.IncomeEvent{
		EstimateID:     id,
		EstimateNumber: "EST-0001",
		Date:           date(day),
		Amount:         dec(amount),
		PaymentType:    model.PaymentTypeCash,
	}
}

func TestWalkRunningBalance_FillsGapDays(t *testing.T) {
	// 500 opening, one expense of 100 on the middle day.
	cashIn := map[string]decimal.Decimal{}
	cashOut := map[string]decimal.Decimal{"2024-01-02": dec(100)}

	rows := walkRunningBalance(date("2024-01-01"), date("2024-01-03"), dec(500), cashIn, cashOut)

	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.True(t, rows[0].RunningBalance.Equal(dec(500)))
	assert.Equal(t, "2024-01-02", rows[1].Date)
	assert.True(t, rows[1].CashOut.Equal(dec(100)))
	assert.True(t, rows[1].RunningBalance.Equal(dec(400)))
	assert.Equal(t, "2024-01-03", rows[2].Date)
	assert.True(t, rows[2].CashIn.IsZero())
	assert.True(t, rows[2].CashOut.IsZero())
	assert.True(t, rows[2].RunningBalance.Equal(dec(400)))
}

func TestCashFlowReport_BalanceIdentity(t *testing.T) {
	ledger := &fakeLedgerRepo{
		income: []model.IncomeEvent{
			cashSale(1, "2023-12-20", 500), // before range, feeds opening
			cashSale(2, "2024-01-02", 200),
			cashSale(3, "2024-01-05", 150),
		},
		expenses: []model.ExpenseEvent{
			{PurchaseID: 1, BillNumber: "BILL-0001", Date: date("2024-01-03"), Amount: dec(80), Status: model.PaymentStatusPaid},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	report, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-01"), date("2024-01-07"))
	require.NoError(t, err)

	assert.True(t, report.Summary.OpeningBalance.Equal(dec(500)))
	assert.True(t, report.Summary.TotalInflow.Equal(dec(350)))
	assert.True(t, report.Summary.TotalOutflow.Equal(dec(80)))
	assert.True(t, report.Summary.NetCashFlow.Equal(dec(270)))
	assert.True(t, report.Summary.ClosingBalance.Equal(dec(770)))

	// One row per calendar day, inclusive of both ends.
	require.Len(t, report.DailyBreakdown, 7)
	final := report.DailyBreakdown[len(report.DailyBreakdown)-1]
	assert.True(t, final.RunningBalance.Equal(report.Summary.ClosingBalance),
		"final running balance must equal the closing balance")
}

func TestCashFlowReport_CreditCountedOnReceivedDate(t *testing.T) {
	// Cash sale of 200 on Jan 2; credit sale of 300 on Jan 3 collected Jan 10.
	ledger := &fakeLedgerRepo{
		income: []model.IncomeEvent{
			cashSale(1, "2024-01-02", 200),
			{
				EstimateID:     2,
				EstimateNumber: "EST-0002",
				Date:           date("2024-01-03"),
				Amount:         dec(300),
				PaymentType:    model.PaymentTypeCredit,
				ReceivedDate:   datePtr("2024-01-10"),
				ReceivedMode:   strPtr(model.PaymentTypeUPI),
			},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	first, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-01"), date("2024-01-07"))
	require.NoError(t, err)
	assert.True(t, first.Summary.TotalInflow.Equal(dec(200)),
		"credit sale must not appear before its received date")

	second, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-08"), date("2024-01-12"))
	require.NoError(t, err)
	assert.True(t, second.Summary.TotalInflow.Equal(dec(300)))
	assert.True(t, second.Summary.OpeningBalance.Equal(dec(200)),
		"cash sale before the range feeds the opening balance")
	assert.True(t, second.Summary.InflowByPaymentMethod[model.PaymentTypeUPI].Equal(dec(300)),
		"credit collection is attributed to the received mode")
}

func TestCashFlowReport_UncollectedCreditExcluded(t *testing.T) {
	ledger := &fakeLedgerRepo{
		income: []model.IncomeEvent{
			cashSale(1, "2024-01-02", 100),
			{
				EstimateID:     2,
				EstimateNumber: "EST-0002",
				Date:           date("2024-01-03"),
				Amount:         dec(999),
				PaymentType:    model.PaymentTypeCredit,
				// no received date or mode: not cash yet
			},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	report, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-01"), date("2024-01-31"))
	require.NoError(t, err)
	assert.True(t, report.Summary.TotalInflow.Equal(dec(100)))
	assert.Len(t, report.InflowTransactions, 1)
}

func TestCashFlowReport_PendingPurchaseExcluded(t *testing.T) {
	ledger := &fakeLedgerRepo{
		expenses: []model.ExpenseEvent{
			{PurchaseID: 1, BillNumber: "BILL-0001", Date: date("2024-01-02"), Amount: dec(50), Status: model.PaymentStatusPaid},
			{PurchaseID: 2, BillNumber: "BILL-0002", Date: date("2024-01-03"), Amount: dec(500), Status: model.PaymentStatusPending},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	report, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-01"), date("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, report.Summary.TotalOutflow.Equal(dec(50)))
	assert.Len(t, report.OutflowTransactions, 1)
}

func TestCashFlowReport_PaidPurchaseUsesPaymentDate(t *testing.T) {
	ledger := &fakeLedgerRepo{
		expenses: []model.ExpenseEvent{
			{
				PurchaseID:  1,
				BillNumber:  "BILL-0001",
				Date:        date("2024-01-02"),
				Amount:      dec(70),
				Status:      model.PaymentStatusPaid,
				PaymentDate: datePtr("2024-01-06"),
				PaymentMode: strPtr(model.PaymentTypeCard),
			},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	report, err := svc.CashFlowReport(context.Background(), 1, date("2024-01-01"), date("2024-01-07"))
	require.NoError(t, err)
	require.Len(t, report.OutflowTransactions, 1)
	assert.Equal(t, "2024-01-06", report.OutflowTransactions[0].Date)
	assert.True(t, report.Summary.OutflowByPaymentMethod[model.PaymentTypeCard].Equal(dec(70)))
}

func TestCashFlowReport_InvalidRange(t *testing.T) {
	svc := NewReportService(&fakeLedgerRepo{}, &fakeItemRepo{})
	_, err := svc.CashFlowReport(context.Background(), 1, date("2024-02-01"), date("2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestIncomeExpenseReport_AccrualIgnoresPaymentTiming(t *testing.T) {
	ledger := &fakeLedgerRepo{
		estimates: []model.Estimate{
			{
				ID:             1,
				EstimateNumber: "EST-0001",
				EstimateDate:   date("2024-01-02"),
				Status:         model.EstimateStatusCompleted,
				Subtotal:       dec(100),
				TaxAmount:      dec(18),
				DiscountAmount: dec(8),
				Total:          dec(110),
				PaymentType:    model.PaymentTypeCredit, // uncollected, still accrues
			},
		},
		purchases: []model.Purchase{
			{
				ID:            1,
				BillNumber:    "BILL-0001",
				PurchaseDate:  date("2024-01-03"),
				Total:         dec(40),
				PaymentStatus: model.PaymentStatusPending, // unpaid, still accrues
			},
		},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	report, err := svc.IncomeExpenseReport(context.Background(), 1, date("2024-01-01"), date("2024-01-04"))
	require.NoError(t, err)

	assert.True(t, report.Summary.TotalIncome.Equal(dec(110)))
	assert.True(t, report.Summary.TotalExpenses.Equal(dec(40)))
	assert.True(t, report.Summary.NetProfit.Equal(dec(70)))
	assert.True(t, report.Summary.TaxCollected.Equal(dec(18)))
	assert.True(t, report.Summary.DiscountGiven.Equal(dec(8)))

	require.Len(t, report.DailyBreakdown, 4)
	assert.True(t, report.DailyBreakdown[1].Income.Equal(dec(110)))
	assert.True(t, report.DailyBreakdown[2].Expenses.Equal(dec(40)))
	assert.True(t, report.DailyBreakdown[2].Profit.Equal(dec(-40)))
}

func TestExportCashFlowCSV(t *testing.T) {
	ledger := &fakeLedgerRepo{
		income: []model.IncomeEvent{cashSale(1, "2024-01-01", 100)},
	}
	svc := NewReportService(ledger, &fakeItemRepo{})

	buffer, err := svc.ExportCashFlowCSV(context.Background(), 1, date("2024-01-01"), date("2024-01-03"))
	require.NoError(t, err)

	lines := buffer.String()
	assert.Contains(t, lines, "Date,CashIn,CashOut,RunningBalance")
	assert.Contains(t, lines, "2024-01-01,100,0,100")
	assert.Contains(t, lines, "2024-01-03,0,0,100")
}

func TestInventoryReport(t *testing.T) {
	items := &fakeItemRepo{
		items: []model.Item{
			{ID: 1, Name: "Widget", Unit: "pcs", PurchasePrice: dec(10), Stock: dec(5), LowStockThreshold: dec(2)},
			{ID: 2, Name: "Gadget", Unit: "pcs", PurchasePrice: dec(20), Stock: dec(1), LowStockThreshold: dec(3)},
		},
	}
	svc := NewReportService(&fakeLedgerRepo{}, items)

	report, err := svc.InventoryReport(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalItems)
	assert.Equal(t, 1, report.LowStockCount)
	assert.True(t, report.StockValue.Equal(dec(70))) // 5*10 + 1*20
	require.Len(t, report.Items, 2)
	assert.False(t, report.Items[0].LowStock)
	assert.True(t, report.Items[1].LowStock)
}

func TestDashboard(t *testing.T) {
	now := date("2024-01-15")
	ledger := &fakeLedgerRepo{
		estimates: []model.Estimate{
			{ID: 1, EstimateDate: date("2024-01-05"), Status: model.EstimateStatusCompleted, Total: dec(300)},
			{ID: 2, EstimateDate: date("2023-12-20"), Status: model.EstimateStatusCompleted, Total: dec(999)}, // previous month
		},
		purchases: []model.Purchase{
			{ID: 1, PurchaseDate: date("2024-01-10"), Total: dec(120), PaymentStatus: model.PaymentStatusPaid},
		},
		income: []model.IncomeEvent{
			{EstimateID: 3, Date: date("2024-01-08"), Amount: dec(50), PaymentType: model.PaymentTypeCredit}, // pending receivable
		},
		expenses: []model.ExpenseEvent{
			{PurchaseID: 2, Date: date("2024-01-09"), Amount: dec(30), Status: model.PaymentStatusPending},
		},
	}
	items := &fakeItemRepo{
		items: []model.Item{
			{ID: 1, Stock: dec(0), LowStockThreshold: dec(1)},
		},
	}
	svc := NewReportService(ledger, items)

	summary, err := svc.Dashboard(context.Background(), 1, now)
	require.NoError(t, err)

	assert.True(t, summary.MonthIncome.Equal(dec(300)))
	assert.True(t, summary.MonthExpenses.Equal(dec(120)))
	assert.True(t, summary.MonthProfit.Equal(dec(180)))
	assert.True(t, summary.PendingReceivables.Equal(dec(50)))
	assert.True(t, summary.PendingPayables.Equal(dec(30)))
	assert.Equal(t, 1, summary.LowStockItems)
}
