// Package fee derives EIP-1559 fee fields from the latest base fee.
package fee

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

const (
	// MinPriorityFee is the lower bound for the priority fee (2 gwei)
	MinPriorityFee uint64 = 2_000_000_000

	priorityFeeDivisor  = 10
	maxFeeBufferDivisor = 4
)

// Plan holds the two fee fields of a dynamic fee transaction, in wei
type Plan struct {
	PriorityFeePerGas *big.Int
	MaxFeePerGas      *big.Int
}

// Derive computes the fee plan for baseFee:
//
//	priority = max(baseFee/10, 2 gwei)
//	maxFee   = baseFee + priority + baseFee/4
//
// A nil, negative or overflowing base fee is a programming error and panics.
func Derive(baseFee *big.Int) Plan {
	if baseFee == nil {
		panic("fee: nil base fee")
	}
	if baseFee.Sign() < 0 {
		panic(fmt.Sprintf("fee: negative base fee %s", baseFee))
	}

	base, overflow := uint256.FromBig(baseFee)
	if overflow {
		panic(fmt.Sprintf("fee: base fee %s exceeds 256 bits", baseFee))
	}

	priority := new(uint256.Int).Div(base, uint256.NewInt(priorityFeeDivisor))
	if floor := uint256.NewInt(MinPriorityFee); priority.Lt(floor) {
		priority = floor
	}

	buffer := new(uint256.Int).Div(base, uint256.NewInt(maxFeeBufferDivisor))

	maxFee, overflow := new(uint256.Int).AddOverflow(base, priority)
	if overflow {
		panic(fmt.Sprintf("fee: max fee overflows for base fee %s", baseFee))
	}
	if _, overflow = maxFee.AddOverflow(maxFee, buffer); overflow {
		panic(fmt.Sprintf("fee: max fee overflows for base fee %s", baseFee))
	}

	return Plan{
		PriorityFeePerGas: priority.ToBig(),
		MaxFeePerGas:      maxFee.ToBig(),
	}
}

// MaxCost is the worst case gas cost of a transaction using this plan
func (p Plan) MaxCost(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(p.MaxFeePerGas, new(big.Int).SetUint64(gasLimit))
}
