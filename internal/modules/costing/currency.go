// README: Display formatting for shilling amounts.
package costing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var kesPrinter = message.NewPrinter(language.English)

// FormatCurrency renders a whole-shilling amount for display, with
// thousands grouping and no decimal places ("KES 6,700"). Cosmetic only;
// nothing in the engine depends on it.
func FormatCurrency(amount int64) string {
	return kesPrinter.Sprintf("KES %d", amount)
}
