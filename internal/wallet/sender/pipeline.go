package sender

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github/chapool/go-sendtx/internal/config"
	"github/chapool/go-sendtx/internal/metrics"
	"github/chapool/go-sendtx/internal/util"
	"github/chapool/go-sendtx/internal/wallet/chain"
	"github/chapool/go-sendtx/internal/wallet/fee"
	"github/chapool/go-sendtx/internal/wallet/signer"
	"github/chapool/go-sendtx/internal/wallet/submit"
	"github/chapool/go-sendtx/internal/wallet/txbuilder"
	"github/chapool/go-sendtx/internal/wallet/watch"
)

// Pipeline sends one transaction: snapshot, fee plan, sign, submit, watch
type Pipeline struct {
	Config   config.Sender
	Identity *signer.Identity
	Reader   *chain.Reader
	Router   *submit.Router
	Watcher  *watch.Watcher
	Metrics  *metrics.Service
	Out      io.Writer
}

func newPipeline(
	cfg config.Sender,
	identity *signer.Identity,
	reader *chain.Reader,
	router *submit.Router,
	watcher *watch.Watcher,
	m *metrics.Service,
	out io.Writer,
) *Pipeline {
	return &Pipeline{
		Config:   cfg,
		Identity: identity,
		Reader:   reader,
		Router:   router,
		Watcher:  watcher,
		Metrics:  m,
		Out:      out,
	}
}

// Result holds everything a run produced, fields stay nil past the failing step
type Result struct {
	RunID    string
	Snapshot *chain.Snapshot
	Fees     fee.Plan
	Envelope *txbuilder.Envelope
	Handle   submit.Handle
	Outcome  watch.Outcome
}

// Run executes the pipeline once. Fatal errors are *StepError.
// The watch outcome is reported but never turned into an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}

	logger := util.LogFromContext(ctx).With().Str("run_id", result.RunID).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if err := p.Metrics.Flush(); err != nil {
			logger.Warn().Err(err).Msg("Failed to flush metrics")
		}
	}()

	mode := txbuilder.ModeFor(p.Config.Reverts)
	address := p.Identity.Address()

	p.printf("Address:        %s\n", address.Hex())
	p.printf("Mode:           %s\n", mode)
	p.printf("Submission:     %s\n", submissionPath(p.Config.Bundle))

	snapshot, err := p.Reader.Snapshot(ctx, address)
	if err != nil {
		return result, stepError(StepQuery, err)
	}
	result.Snapshot = snapshot

	p.printf("Chain ID:       %s\n", snapshot.ChainID)
	p.printf("Nonce:          %d\n", snapshot.Nonce)
	p.printf("Balance:        %s\n", FormatEther(snapshot.Balance))
	p.printf("Base fee:       %s\n", FormatGwei(snapshot.BaseFee))

	// 零余额直接中止，不签名也不发送
	if err := snapshot.CheckBalance(); err != nil {
		logger.Error().Str("address", address.Hex()).Msg("Account has no balance, aborting")
		return result, stepError(StepPrecondition, err)
	}

	plan := fee.Derive(snapshot.BaseFee)
	result.Fees = plan

	p.printf("Priority fee:   %s\n", FormatGwei(plan.PriorityFeePerGas))
	p.printf("Max fee:        %s\n", FormatGwei(plan.MaxFeePerGas))

	if maxCost := plan.MaxCost(txbuilder.GasLimit); snapshot.Balance.Cmp(maxCost) < 0 {
		logger.Warn().
			Str("balance", snapshot.Balance.String()).
			Str("max_cost", maxCost.String()).
			Msg("Balance may not cover the worst case gas cost")
	}

	intent := txbuilder.NewIntent(snapshot.ChainID, snapshot.Nonce, plan, mode)
	env, err := txbuilder.Build(p.Identity, intent)
	if err != nil {
		return result, stepError(StepSigning, err)
	}
	result.Envelope = env

	p.printf("Tx hash:        %s\n", env.Hash.Hex())

	handle, err := p.Router.Submit(ctx, env, p.Config.Bundle)
	if err != nil {
		return result, stepError(StepSubmission, err)
	}
	result.Handle = handle

	p.printf("Submitted:      %s %s\n", handle.Kind(), handle.Hash().Hex())

	outcome := p.Watcher.Watch(ctx, handle)
	result.Outcome = outcome
	p.printOutcome(outcome)

	return result, nil
}

func (p *Pipeline) printOutcome(outcome watch.Outcome) {
	switch o := outcome.(type) {
	case watch.Confirmed:
		status := "success"
		if o.Reverted() {
			status = "reverted"
		}
		p.printf("Confirmed:      %s in block %s (%s, gas used %d)\n", o.Hash.Hex(), o.BlockNumber, status, o.GasUsed)
	case watch.TimedOut:
		p.printf("Timed out:      %s not included after %s\n", o.Hash.Hex(), o.After)
	case watch.Failed:
		p.printf("Watch failed:   %s: %v\n", o.Hash.Hex(), o.Err)
	}
}

func (p *Pipeline) printf(format string, args ...any) {
	if p.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(p.Out, format, args...)
}

func submissionPath(bundle bool) string {
	if bundle {
		return "bundle"
	}
	return "broadcast"
}
