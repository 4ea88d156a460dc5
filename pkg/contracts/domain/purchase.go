package domain

// Transaction represents a single cleaned purchase line for a pharmacy product.
// Quantities and values carry the in/out split of the source ledger: Qty/Value
// "in" is goods received, "out" is goods sold.
type Transaction struct {
	ProductID string  `json:"product_id" csv:"kode" validate:"required"`
	Date      string  `json:"date,omitempty" csv:"tanggal"`
	QtyIn     float64 `json:"qty_in" csv:"qty_msk" validate:"min=0"`
	QtyOut    float64 `json:"qty_out" csv:"qty_klr" validate:"min=0"`
	ValueIn   float64 `json:"value_in" csv:"nilai_msk" validate:"min=0"`
	ValueOut  float64 `json:"value_out" csv:"nilai_klr" validate:"min=0"`
	Unit      string  `json:"unit" csv:"unit"`
}

// IsValid checks if the transaction data is structurally usable.
func (t Transaction) IsValid() bool {
	return t.ProductID != "" && t.QtyIn >= 0 && t.QtyOut >= 0 &&
		t.ValueIn >= 0 && t.ValueOut >= 0
}

// PricePerUnit derives the unit price of the outgoing side.
// Returns (0, false) when QtyOut is zero, since no price can be observed.
func (t Transaction) PricePerUnit() (float64, bool) {
	if t.QtyOut <= 0 {
		return 0, false
	}
	return t.ValueOut / t.QtyOut, true
}

// StockRecord represents the current on-hand quantity for a product.
type StockRecord struct {
	ProductID string  `json:"product_id" csv:"kode" validate:"required"`
	Name      string  `json:"name,omitempty" csv:"nama"`
	Location  string  `json:"location,omitempty" csv:"lokasi"`
	QtyStock  float64 `json:"qty_stock" csv:"qty_stok" validate:"min=0"`
	Unit      string  `json:"unit,omitempty" csv:"satuan"`
}

// IsValid checks if the stock record is structurally usable.
func (s StockRecord) IsValid() bool {
	return s.ProductID != "" && s.QtyStock >= 0
}

// ReferenceStats holds the per-product baseline the classifier compares
// flagged transactions against.
type ReferenceStats struct {
	ProductID    string  `json:"product_id"`
	MedianPrice  float64 `json:"median_price"`
	ModalUnit    string  `json:"modal_unit"`
	Observations int     `json:"observations"`
}

// HasPriceBaseline reports whether the median price can support the price
// deviation rule. A zero median cannot be compared against.
func (r ReferenceStats) HasPriceBaseline() bool {
	return r.Observations > 0 && r.MedianPrice > 0
}
