package domain

// FeatureRow is one line of the per-product feature/label table handed to
// the downstream model. Features come from reconciled transactions; the
// label comes from the stock table alone.
type FeatureRow struct {
	ProductID   string  `json:"product_id" csv:"kode"`
	SumQtyIn    float64 `json:"sum_qty_in" csv:"qty_msk"`
	SumQtyOut   float64 `json:"sum_qty_out" csv:"qty_klr"`
	SumValueIn  float64 `json:"sum_value_in" csv:"nilai_msk"`
	SumValueOut float64 `json:"sum_value_out" csv:"nilai_klr"`
	TxCount     int     `json:"tx_count" csv:"tx_count"`
	QtyStock    float64 `json:"qty_stock" csv:"qty_stok"`
	StockHigh   int     `json:"stock_high" csv:"stock_high"`
}

// Decision is the verdict for a single flagged transaction.
type Decision string

const (
	// DecisionLegitimate keeps the flagged row: a genuine bulk purchase.
	DecisionLegitimate Decision = "legitimate"
	// DecisionError drops the flagged row: a suspected data-entry mistake.
	DecisionError Decision = "error"
)

// Classification pairs a flagged transaction index with its verdict and the
// evidence that produced it, for the diagnostic decision log.
type Classification struct {
	Index          int      `json:"index"`
	ProductID      string   `json:"product_id"`
	Decision       Decision `json:"decision"`
	PricePerUnit   float64  `json:"price_per_unit"`
	MedianPrice    float64  `json:"median_price"`
	PriceDeviation float64  `json:"price_deviation"`
	PriceEvaluated bool     `json:"price_evaluated"`
	Unit           string   `json:"unit"`
	ModalUnit      string   `json:"modal_unit"`
	UnitMismatch   bool     `json:"unit_mismatch"`
}

// IsError reports whether the classified row should be removed.
func (c Classification) IsError() bool {
	return c.Decision == DecisionError
}
