package aicredit

import "errors"

// ErrInsufficientCredits is returned when a user has no explanation credits left this month.
var ErrInsufficientCredits = errors.New("insufficient credits")

// MonthlyAllowance is the number of AI quote explanations granted per month.
const MonthlyAllowance = 20
