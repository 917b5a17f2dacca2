package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// BucketSum is the summed euro of one dimension value within one bucket.
type BucketSum struct {
	Bucket    civil.Date      `json:"bucket"`
	Dimension string          `json:"dimension"`
	Euro      decimal.Decimal `json:"euro"`
}

// FlowSum is the summed euro of one kind within one bucket.
type FlowSum struct {
	Bucket civil.Date      `json:"bucket"`
	Kind   Kind            `json:"kind"`
	Euro   decimal.Decimal `json:"euro"`
}

// Slice is one share of a whole, used by pie-style consumers.
type Slice struct {
	Label   string          `json:"label"`
	Euro    decimal.Decimal `json:"euro"`
	Percent decimal.Decimal `json:"percent"` // 0..100, two decimals
}

// ProfitLossPoint is one bucket of the running savings curve.
type ProfitLossPoint struct {
	Bucket     civil.Date      `json:"bucket"`
	Earning    decimal.Decimal `json:"earning"`
	Expense    decimal.Decimal `json:"expense"`
	Cumulative decimal.Decimal `json:"cumulative"` // Running earnings minus running expenses
}

// RankedGroup is one entry of a top-K ranking.
type RankedGroup struct {
	Keys  []string        `json:"keys"` // One value per ranked dimension, same order
	Count int             `json:"count"`
	Euro  decimal.Decimal `json:"euro"`
}

// Matrix is a dense (row value x bucket) grid. Missing cells hold zero.
type Matrix struct {
	RowDimension Column              `json:"rowDimension"`
	Rows         []string            `json:"rows"`
	Buckets      []civil.Date        `json:"buckets"`
	Values       [][]decimal.Decimal `json:"values"` // Values[row][bucket]
}

// At returns the cell for (row, bucket), zero when either is unknown.
func (m *Matrix) At(row string, bucket civil.Date) decimal.Decimal {
	for i, r := range m.Rows {
		if r != row {
			continue
		}
		for j, b := range m.Buckets {
			if b == bucket {
				return m.Values[i][j]
			}
		}
	}
	return decimal.Zero
}

// Totals are the headline figures of a dashboard.
type Totals struct {
	Earnings decimal.Decimal `json:"earnings"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"` // Savings (positive) or losses (negative)
}
