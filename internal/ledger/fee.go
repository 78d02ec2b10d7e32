package ledger

import "github.com/shopspring/decimal"

// Deposits credit and withdrawals pay out 97% of the requested amount;
// the 3% processing fee is the platform's cut.
var feeMultiplier = decimal.RequireFromString("0.97")

func AfterTax(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(feeMultiplier).Round(2)
}
