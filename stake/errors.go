package stake

import "errors"

// ErrInsufficientFunds is returned by Debit when rewards plus principal
// cannot cover the requested amount.
var ErrInsufficientFunds = errors.New("casperflow: insufficient staked funds")
