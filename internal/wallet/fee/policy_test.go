package fee_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github/chapool/go-sendtx/internal/wallet/fee"
)

func gwei(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000))
}

func TestDerive(t *testing.T) {
	tests := []struct {
		name         string
		baseFee      *big.Int
		wantPriority *big.Int
		wantMaxFee   *big.Int
	}{
		{
			name:         "1 gwei uses the priority floor",
			baseFee:      gwei(1),
			wantPriority: big.NewInt(2_000_000_000),
			wantMaxFee:   big.NewInt(3_250_000_000),
		},
		{
			name:         "50 gwei",
			baseFee:      gwei(50),
			wantPriority: big.NewInt(5_000_000_000),
			wantMaxFee:   big.NewInt(67_500_000_000),
		},
		{
			name:         "zero base fee",
			baseFee:      big.NewInt(0),
			wantPriority: big.NewInt(2_000_000_000),
			wantMaxFee:   big.NewInt(2_000_000_000),
		},
		{
			name:         "exactly at the floor boundary",
			baseFee:      gwei(20),
			wantPriority: big.NewInt(2_000_000_000),
			wantMaxFee:   big.NewInt(27_000_000_000),
		},
		{
			name:         "truncating division",
			baseFee:      big.NewInt(33_333_333_337),
			wantPriority: big.NewInt(3_333_333_333),
			wantMaxFee:   big.NewInt(33_333_333_337 + 3_333_333_333 + 8_333_333_334),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := fee.Derive(tt.baseFee)
			assert.Equal(t, 0, tt.wantPriority.Cmp(plan.PriorityFeePerGas), "priority: got %s", plan.PriorityFeePerGas)
			assert.Equal(t, 0, tt.wantMaxFee.Cmp(plan.MaxFeePerGas), "max fee: got %s", plan.MaxFeePerGas)
		})
	}
}

func TestDeriveProperties(t *testing.T) {
	floor := new(big.Int).SetUint64(fee.MinPriorityFee)
	ten, four := big.NewInt(10), big.NewInt(4)

	bases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(7),
		big.NewInt(19_999_999_999),
		big.NewInt(20_000_000_009),
		gwei(3),
		gwei(150),
		gwei(12_345),
		new(big.Int).Lsh(big.NewInt(1), 200),
	}

	for _, base := range bases {
		plan := fee.Derive(base)

		wantPriority := new(big.Int).Quo(base, ten)
		if wantPriority.Cmp(floor) < 0 {
			wantPriority = floor
			assert.Equal(t, 0, floor.Cmp(plan.PriorityFeePerGas), "base %s", base)
		}
		assert.Equal(t, 0, wantPriority.Cmp(plan.PriorityFeePerGas), "base %s", base)

		wantMax := new(big.Int).Add(base, wantPriority)
		wantMax.Add(wantMax, new(big.Int).Quo(base, four))
		assert.Equal(t, 0, wantMax.Cmp(plan.MaxFeePerGas), "base %s", base)

		lower := new(big.Int).Add(plan.PriorityFeePerGas, base)
		assert.GreaterOrEqual(t, plan.MaxFeePerGas.Cmp(lower), 0, "base %s", base)
	}
}

func TestDeriveDoesNotAliasInput(t *testing.T) {
	base := gwei(50)
	plan := fee.Derive(base)

	plan.MaxFeePerGas.SetInt64(1)
	plan.PriorityFeePerGas.SetInt64(1)
	assert.Equal(t, 0, gwei(50).Cmp(base))
}

func TestDerivePanicsOnInvalidInput(t *testing.T) {
	assert.Panics(t, func() { fee.Derive(nil) })
	assert.Panics(t, func() { fee.Derive(big.NewInt(-1)) })
	assert.Panics(t, func() { fee.Derive(new(big.Int).Lsh(big.NewInt(1), 256)) })

	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Panics(t, func() { fee.Derive(maxUint256) })
}

func TestMaxCost(t *testing.T) {
	plan := fee.Derive(gwei(1))
	assert.Equal(t, 0, big.NewInt(3_250_000_000*300000).Cmp(plan.MaxCost(300000)))
}
