// README: Shared money conventions.
package types

// Amounts are whole currency units throughout (KES has no minor unit in
// app pricing), carried as int64 next to a currency code.

// DefaultCurrency is the currency recorded on payments.
const DefaultCurrency = "KES"
