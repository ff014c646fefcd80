package sender_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github/chapool/go-sendtx/internal/wallet/sender"
)

func TestFormatEther(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{"nil", nil, "n/a"},
		{"zero", big.NewInt(0), "0 wei (0 ETH)"},
		{"one ether", big.NewInt(1_000_000_000_000_000_000), "1000000000000000000 wei (1 ETH)"},
		{"fraction", big.NewInt(1_500_000_000_000_000), "1500000000000000 wei (0.0015 ETH)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sender.FormatEther(tt.wei))
		})
	}
}

func TestFormatGwei(t *testing.T) {
	assert.Equal(t, "2000000000 wei (2 gwei)", sender.FormatGwei(big.NewInt(2_000_000_000)))
	assert.Equal(t, "3250000000 wei (3.25 gwei)", sender.FormatGwei(big.NewInt(3_250_000_000)))
}
