package metrics_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/SscSPs/statement_dashboard/internal/apperrors"
	"github.com/SscSPs/statement_dashboard/internal/core/domain"
	"github.com/SscSPs/statement_dashboard/internal/core/metrics"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flow(date civil.Date, kind domain.Kind, euro string, op, cat, desc string) domain.Transaction {
	return domain.NewFlow(date, kind, dec(euro), op, cat, "sub", desc, domain.DefaultWeekStart)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got}, msgAndArgs...)...)
}

// scenario is the three-row example: one January earning and two expenses
// spread over January and February.
func scenario() domain.Table {
	return domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 5), domain.Earning, "100", "Bonifico", "Entrate", "STIPENDIO"),
		flow(day(2024, 1, 20), domain.Expense, "40", "POS", "Casa", "SUPERMERCATO"),
		flow(day(2024, 2, 1), domain.Expense, "10", "POS", "Svago", "BAR"),
	})
}

func TestTotal_Scenario(t *testing.T) {
	table := scenario()
	assertDecimal(t, "100", metrics.Total(table, domain.Earning))
	assertDecimal(t, "50", metrics.Total(table, domain.Expense))
	assertDecimal(t, "50", metrics.Net(table))

	totals := metrics.Totals(table)
	assertDecimal(t, "100", totals.Earnings)
	assertDecimal(t, "50", totals.Expenses)
	assertDecimal(t, "50", totals.Net)
}

func TestTotal_EmptyTable(t *testing.T) {
	assertDecimal(t, "0", metrics.Total(domain.NewTable(nil), domain.Expense))
}

func TestProfitLoss_ScenarioMonthly(t *testing.T) {
	points, err := metrics.ProfitLoss(scenario(), domain.Month)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, day(2024, 1, 1), points[0].Bucket)
	assertDecimal(t, "60", points[0].Cumulative)
	assert.Equal(t, day(2024, 2, 1), points[1].Bucket)
	assertDecimal(t, "50", points[1].Cumulative)
}

func TestProfitLoss_ThreeBucketsWithGap(t *testing.T) {
	// January: +200 -50, February: nothing, March: +10 -300.
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 3, 9), domain.Expense, "300", "POS", "Casa", "A"),
		flow(day(2024, 1, 2), domain.Earning, "200", "Bonifico", "Entrate", "B"),
		flow(day(2024, 1, 30), domain.Expense, "50", "POS", "Casa", "C"),
		flow(day(2024, 3, 10), domain.Earning, "10", "Bonifico", "Entrate", "D"),
	})

	points, err := metrics.ProfitLoss(table, domain.Month)
	require.NoError(t, err)
	require.Len(t, points, 3)

	want := []struct {
		bucket     civil.Date
		earning    string
		expense    string
		cumulative string
	}{
		{day(2024, 1, 1), "200", "50", "150"},
		{day(2024, 2, 1), "0", "0", "150"},
		{day(2024, 3, 1), "10", "300", "-140"},
	}
	runEarning, runExpense := decimal.Zero, decimal.Zero
	for i, w := range want {
		assert.Equal(t, w.bucket, points[i].Bucket)
		assertDecimal(t, w.earning, points[i].Earning)
		assertDecimal(t, w.expense, points[i].Expense)
		assertDecimal(t, w.cumulative, points[i].Cumulative)

		runEarning = runEarning.Add(points[i].Earning)
		runExpense = runExpense.Add(points[i].Expense)
		assert.True(t, runEarning.Sub(runExpense).Equal(points[i].Cumulative))
	}
}

func TestProfitLoss_Weekly(t *testing.T) {
	points, err := metrics.ProfitLoss(scenario(), domain.Week)
	require.NoError(t, err)
	// Weeks from 2024-01-01 to 2024-01-29 inclusive.
	require.Len(t, points, 5)
	assert.Equal(t, day(2024, 1, 1), points[0].Bucket)
	assert.Equal(t, day(2024, 1, 29), points[4].Bucket)
	assertDecimal(t, "100", points[0].Cumulative)
	assertDecimal(t, "100", points[1].Cumulative)
	assertDecimal(t, "60", points[2].Cumulative)
	assertDecimal(t, "60", points[3].Cumulative)
	assertDecimal(t, "50", points[4].Cumulative)
}

func TestProfitLoss_EmptyAndInvalid(t *testing.T) {
	points, err := metrics.ProfitLoss(domain.NewTable(nil), domain.Month)
	require.NoError(t, err)
	assert.Empty(t, points)

	_, err = metrics.ProfitLoss(scenario(), domain.Granularity("Year"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGroupedSum(t *testing.T) {
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 3), domain.Expense, "10", "POS", "Svago", "A"),
		flow(day(2024, 1, 9), domain.Expense, "15", "POS", "Casa", "B"),
		flow(day(2024, 1, 12), domain.Expense, "5", "POS", "Casa", "C"),
		flow(day(2024, 2, 2), domain.Expense, "0", "POS", "Zero", "D"),
		flow(day(2024, 2, 3), domain.Earning, "999", "Bonifico", "Entrate", "E"),
	})

	got, err := metrics.GroupedSum(table, domain.Month, domain.ColumnCategory, domain.Expense)
	require.NoError(t, err)
	require.Len(t, got, 2, "zero aggregate for Zero and the earning must be excluded")
	assert.Equal(t, day(2024, 1, 1), got[0].Bucket)
	assert.Equal(t, "Casa", got[0].Dimension)
	assertDecimal(t, "20", got[0].Euro)
	assert.Equal(t, "Svago", got[1].Dimension)
	assertDecimal(t, "10", got[1].Euro)

	_, err = metrics.GroupedSum(table, domain.Month, domain.ColumnEuro, domain.Expense)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

// Summing every grouped cell gives back the kind total. The chart-facing
// GroupedSum drops non-positive cells; since euro is never negative those
// cells are exactly zero and do not change the sum.
func TestGroupedSum_ConservesTotal(t *testing.T) {
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 3), domain.Expense, "10.25", "POS", "Svago", "A"),
		flow(day(2024, 1, 9), domain.Expense, "15", "Online", "Casa", "B"),
		flow(day(2024, 2, 12), domain.Expense, "5.75", "POS", "Casa", "C"),
		flow(day(2024, 3, 2), domain.Expense, "0", "POS", "Zero", "D"),
		flow(day(2024, 3, 3), domain.Earning, "80", "Bonifico", "Entrate", "E"),
		flow(day(2024, 3, 20), domain.Earning, "20", "Bonifico", "Rimborsi", "F"),
	})

	for _, g := range domain.Granularities() {
		for _, dim := range []domain.Column{domain.ColumnCategory, domain.ColumnOperation, domain.ColumnDescription} {
			for _, kind := range domain.Kinds() {
				cells, err := metrics.GroupedSum(table, g, dim, kind)
				require.NoError(t, err)
				sum := decimal.Zero
				for _, c := range cells {
					assert.True(t, c.Euro.IsPositive())
					sum = sum.Add(c.Euro)
				}
				assert.True(t, metrics.Total(table, kind).Equal(sum), "%s/%s/%s", g, dim, kind)
			}
		}
	}
}

func TestFlowByBucket(t *testing.T) {
	got, err := metrics.FlowByBucket(scenario(), domain.Month)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.Earning, got[0].Kind)
	assertDecimal(t, "100", got[0].Euro)
	assert.Equal(t, domain.Expense, got[1].Kind)
	assertDecimal(t, "40", got[1].Euro)
	assert.Equal(t, day(2024, 2, 1), got[2].Bucket)
	assert.Equal(t, domain.Expense, got[2].Kind)
}

func TestShare(t *testing.T) {
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 3), domain.Expense, "30", "POS", "Casa", "A"),
		flow(day(2024, 1, 4), domain.Expense, "10", "POS", "Svago", "B"),
		flow(day(2024, 1, 5), domain.Expense, "20", "Online", "Casa", "C"),
	})

	got, err := metrics.Share(table, domain.Expense, domain.ColumnCategory)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Casa", got[0].Label)
	assertDecimal(t, "50", got[0].Euro)
	assertDecimal(t, "83.33", got[0].Percent)
	assertDecimal(t, "16.67", got[1].Percent)

	_, err = metrics.Share(table, domain.Earning, domain.ColumnCategory)
	assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
}

func TestPivot_FillsMissingCellsWithZero(t *testing.T) {
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 3), domain.Expense, "10", "POS", "Svago", "A"),
		flow(day(2024, 1, 20), domain.Expense, "5", "POS", "Svago", "B"),
		flow(day(2024, 3, 9), domain.Expense, "7", "POS", "Casa", "C"),
		flow(day(2024, 2, 9), domain.Earning, "1000", "Bonifico", "Entrate", "D"),
	})

	m, err := metrics.Pivot(table, domain.ColumnCategory, domain.Month, domain.Expense)
	require.NoError(t, err)

	assert.Equal(t, []string{"Casa", "Svago"}, m.Rows)
	assert.Equal(t, []civil.Date{day(2024, 1, 1), day(2024, 2, 1), day(2024, 3, 1)}, m.Buckets)
	require.Len(t, m.Values, 2)
	for _, row := range m.Values {
		require.Len(t, row, 3)
	}

	assertDecimal(t, "0", m.Values[0][0])
	assertDecimal(t, "0", m.Values[0][1])
	assertDecimal(t, "7", m.Values[0][2])
	assertDecimal(t, "15", m.Values[1][0])
	assertDecimal(t, "0", m.Values[1][1])
	assertDecimal(t, "0", m.Values[1][2])

	assertDecimal(t, "15", m.At("Svago", day(2024, 1, 1)))
	assertDecimal(t, "0", m.At("Entrate", day(2024, 2, 1)))
}

func TestPivot_Empty(t *testing.T) {
	m, err := metrics.Pivot(domain.NewTable(nil), domain.ColumnSubcategory, domain.Week, domain.Expense)
	require.NoError(t, err)
	assert.Empty(t, m.Rows)
	assert.Empty(t, m.Buckets)
}

func TestTopK(t *testing.T) {
	table := domain.NewTable([]domain.Transaction{
		flow(day(2024, 1, 1), domain.Expense, "5", "POS", "Casa", "BAR"),
		flow(day(2024, 1, 2), domain.Expense, "5", "POS", "Casa", "BAR"),
		flow(day(2024, 1, 3), domain.Expense, "100", "Online", "Casa", "AMAZON"),
		flow(day(2024, 1, 4), domain.Expense, "3", "POS", "Casa", "EDICOLA"),
		flow(day(2024, 1, 5), domain.Expense, "3", "POS", "Casa", "CAFFE"),
		flow(day(2024, 1, 6), domain.Earning, "2000", "Bonifico", "Entrate", "STIPENDIO"),
	})
	dims := []domain.Column{domain.ColumnDescription, domain.ColumnOperation}

	byCount, err := metrics.TopK(table, 3, metrics.RankByCount, dims, nil)
	require.NoError(t, err)
	require.Len(t, byCount, 3)
	assert.Equal(t, []string{"BAR", "POS"}, byCount[0].Keys)
	assert.Equal(t, 2, byCount[0].Count)
	// Single-count groups tie and keep ascending key order.
	assert.Equal(t, []string{"AMAZON", "Online"}, byCount[1].Keys)
	assert.Equal(t, []string{"CAFFE", "POS"}, byCount[2].Keys)

	expense := domain.Expense
	byEuro, err := metrics.TopK(table, 2, metrics.RankByEuro, dims, &expense)
	require.NoError(t, err)
	require.Len(t, byEuro, 2)
	assert.Equal(t, []string{"AMAZON", "Online"}, byEuro[0].Keys)
	assertDecimal(t, "100", byEuro[0].Euro)
	assert.Equal(t, []string{"BAR", "POS"}, byEuro[1].Keys)
	assertDecimal(t, "10", byEuro[1].Euro)
}

func TestTopK_KLargerThanGroups(t *testing.T) {
	got, err := metrics.TopK(scenario(), 50, metrics.RankByEuro, []domain.Column{domain.ColumnDescription}, nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "STIPENDIO", got[0].Keys[0])
	assert.Equal(t, "SUPERMERCATO", got[1].Keys[0])
	assert.Equal(t, "BAR", got[2].Keys[0])
}

func TestTopK_InvalidArguments(t *testing.T) {
	_, err := metrics.TopK(scenario(), -1, metrics.RankByEuro, []domain.Column{domain.ColumnDescription}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = metrics.TopK(scenario(), 1, metrics.RankBy("median"), []domain.Column{domain.ColumnDescription}, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = metrics.TopK(scenario(), 1, metrics.RankByCount, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err := metrics.TopK(scenario(), 0, metrics.RankByCount, []domain.Column{domain.ColumnOperation}, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAggregations_AreDeterministic(t *testing.T) {
	table := scenario()
	first, err := metrics.GroupedSum(table, domain.Week, domain.ColumnCategory, domain.Expense)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := metrics.GroupedSum(table, domain.Week, domain.ColumnCategory, domain.Expense)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
