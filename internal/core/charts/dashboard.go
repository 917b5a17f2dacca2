package charts

import "github.com/SscSPs/statement_dashboard/internal/core/domain"

// Options controls the full dashboard chart set.
type Options struct {
	Granularity domain.Granularity
	Height      int
	TopK        int
	// VendorOperations adds one expense vendor ranking per listed operation.
	VendorOperations []string
}

// DefaultVendorOperations are the card and online payment operations of the
// Banca Sella export.
func DefaultVendorOperations() []string {
	return []string{"Pagamento POS", "Pagamenti OnLine"}
}

// Build returns every dashboard chart in display order.
func Build(t domain.Table, opts Options) ([]domain.Chart, error) {
	if opts.TopK == 0 {
		opts.TopK = DefaultTopK
	}
	g, h := opts.Granularity, opts.Height

	builders := []func() (domain.Chart, error){
		func() (domain.Chart, error) { return ProfitLossLine(t, g, h) },
		func() (domain.Chart, error) { return EarningsExpensesBar(t, g, h) },
		func() (domain.Chart, error) { return CategoryBar(t, g, domain.Large, domain.Expense, h) },
		func() (domain.Chart, error) { return CategoryBar(t, g, domain.Small, domain.Expense, h) },
		func() (domain.Chart, error) { return CategoryBar(t, g, domain.Large, domain.Earning, h) },
		func() (domain.Chart, error) { return FlowPie(t, domain.Expense, domain.Large) },
		func() (domain.Chart, error) { return FlowPie(t, domain.Expense, domain.Small) },
		func() (domain.Chart, error) { return OperationPie(t, domain.Expense) },
		func() (domain.Chart, error) { return FlowPie(t, domain.Earning, domain.Large) },
		func() (domain.Chart, error) { return TopVendorTransactions(t, opts.TopK, h) },
		func() (domain.Chart, error) { return TopVendorFlow(t, opts.TopK, domain.Expense, "", h) },
	}
	for _, op := range opts.VendorOperations {
		op := op
		builders = append(builders, func() (domain.Chart, error) {
			return TopVendorFlow(t, opts.TopK, domain.Expense, op, h)
		})
	}
	builders = append(builders,
		func() (domain.Chart, error) { return FlowHeatmap(t, g, domain.Expense, domain.Large, h) },
		func() (domain.Chart, error) { return FlowHeatmap(t, g, domain.Expense, domain.Small, h) },
	)

	out := make([]domain.Chart, 0, len(builders))
	for _, build := range builders {
		c, err := build()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
