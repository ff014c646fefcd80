package txbuilder

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	// TransferRecipient receives the zero value transfer
	TransferRecipient = common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")

	// RevertingInitCode is contract init code that always reverts:
	// PUSH1 0x00 PUSH1 0x00 REVERT
	RevertingInitCode = []byte{0x60, 0x00, 0x60, 0x00, 0xfd}
)

// ModeKind names the destination mode of a transaction
type ModeKind int

const (
	ModeTransfer ModeKind = iota + 1
	ModeRevertingCall
)

func (k ModeKind) String() string {
	switch k {
	case ModeTransfer:
		return "transfer"
	case ModeRevertingCall:
		return "reverting-call"
	default:
		return "unknown"
	}
}

// Mode selects what the transaction does. The zero value is invalid;
// use Transfer or RevertingCall.
type Mode struct {
	kind ModeKind
}

// Transfer sends to TransferRecipient with an empty payload
func Transfer() Mode {
	return Mode{kind: ModeTransfer}
}

// RevertingCall creates a contract whose init code unconditionally reverts
func RevertingCall() Mode {
	return Mode{kind: ModeRevertingCall}
}

// ModeFor maps the --reverts flag to a mode
func ModeFor(reverts bool) Mode {
	if reverts {
		return RevertingCall()
	}
	return Transfer()
}

func (m Mode) Kind() ModeKind {
	return m.kind
}

func (m Mode) String() string {
	return m.kind.String()
}

// Destination returns the recipient and payload for the mode.
// A nil recipient means contract creation.
func (m Mode) Destination() (*common.Address, []byte) {
	switch m.kind {
	case ModeTransfer:
		to := TransferRecipient
		return &to, nil
	case ModeRevertingCall:
		data := make([]byte, len(RevertingInitCode))
		copy(data, RevertingInitCode)
		return nil, data
	default:
		panic("txbuilder: zero Mode, use Transfer() or RevertingCall()")
	}
}
