package sender

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	etherDecimals = 18
	gweiDecimals  = 9
)

// FormatEther renders wei as "<wei> wei (<eth> ETH)"
func FormatEther(wei *big.Int) string {
	return formatUnit(wei, etherDecimals, "ETH")
}

// FormatGwei renders wei as "<wei> wei (<gwei> gwei)"
func FormatGwei(wei *big.Int) string {
	return formatUnit(wei, gweiDecimals, "gwei")
}

func formatUnit(wei *big.Int, decimals int32, unit string) string {
	if wei == nil {
		return "n/a"
	}
	amount := decimal.NewFromBigInt(wei, -decimals)
	return wei.String() + " wei (" + amount.String() + " " + unit + ")"
}
