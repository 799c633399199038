// README: Card validation input/output records.
package card

// Data is the raw payment-form input exactly as typed. Callers re-validate
// the whole record on every change; no validity state is cached here.
type Data struct {
	Number     string `json:"number"`
	Expiry     string `json:"expiry"` // MM/YY display form
	CVV        string `json:"cvv"`
	HolderName string `json:"holder_name"`
}

// FieldResult reports one field's verdict. Failures are data, never errors.
type FieldResult struct {
	Valid   bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

// NumberResult is FieldResult plus the detected network, when any rule matched.
type NumberResult struct {
	Valid   bool     `json:"is_valid"`
	Message string   `json:"message,omitempty"`
	Network *Network `json:"network,omitempty"`
}

// Validation is the full-card verdict: per-field results plus an overall
// AND. Overall carries a generic message; callers read the per-field
// results for detail.
type Validation struct {
	Number     NumberResult `json:"number"`
	Expiry     FieldResult  `json:"expiry"`
	CVV        FieldResult  `json:"cvv"`
	HolderName FieldResult  `json:"holder_name"`
	Overall    FieldResult  `json:"overall"`
}
