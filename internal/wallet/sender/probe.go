package sender

import (
	"context"
	"fmt"
	"io"

	"github/chapool/go-sendtx/internal/wallet/chain"
	"github/chapool/go-sendtx/internal/wallet/fee"
	"github/chapool/go-sendtx/internal/wallet/signer"
)

// Probe prints the chain snapshot and the fee plan a send would use. It never signs or sends.
type Probe struct {
	Identity *signer.Identity
	Reader   *chain.Reader
	Out      io.Writer
}

func newProbe(identity *signer.Identity, reader *chain.Reader, out io.Writer) *Probe {
	return &Probe{
		Identity: identity,
		Reader:   reader,
		Out:      out,
	}
}

func (p *Probe) Run(ctx context.Context) (*chain.Snapshot, fee.Plan, error) {
	snapshot, err := p.Reader.Snapshot(ctx, p.Identity.Address())
	if err != nil {
		return nil, fee.Plan{}, stepError(StepQuery, err)
	}

	plan := fee.Derive(snapshot.BaseFee)

	fmt.Fprintf(p.Out, "Address:        %s\n", snapshot.Address.Hex())
	fmt.Fprintf(p.Out, "Chain ID:       %s\n", snapshot.ChainID)
	fmt.Fprintf(p.Out, "Nonce:          %d\n", snapshot.Nonce)
	fmt.Fprintf(p.Out, "Balance:        %s\n", FormatEther(snapshot.Balance))
	fmt.Fprintf(p.Out, "Base fee:       %s\n", FormatGwei(snapshot.BaseFee))
	fmt.Fprintf(p.Out, "Priority fee:   %s\n", FormatGwei(plan.PriorityFeePerGas))
	fmt.Fprintf(p.Out, "Max fee:        %s\n", FormatGwei(plan.MaxFeePerGas))

	if err := snapshot.CheckBalance(); err != nil {
		fmt.Fprintf(p.Out, "Warning:        %v\n", err)
	}

	return snapshot, plan, nil
}
