package swapcall

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Call is an encoded contract invocation. Call is immutable.
type Call struct {
	contract *Contract
	method   abi.Method
	args     []any
	data     []byte
}

// newCall packs args against method and prefixes the 4-byte selector.
func newCall(contract *Contract, method abi.Method, args []any) (*Call, error) {
	if len(args) != len(method.Inputs) {
		return nil, &ArgumentCountError{Method: method.Name, Want: len(method.Inputs), Got: len(args)}
	}

	packed, err := method.Inputs.Pack(args...)
	if err != nil {
		return nil, &EncodingError{Method: method.Sig, Err: err}
	}

	data := make([]byte, 0, 4+len(packed))
	data = append(data, method.ID[:4]...)
	data = append(data, packed...)

	return &Call{
		contract: contract,
		method:   method,
		args:     args,
		data:     data,
	}, nil
}

// Contract returns the target contract for this call.
func (c *Call) Contract() *Contract {
	return c.contract
}

// Method returns the ABI method for this call.
func (c *Call) Method() abi.Method {
	return c.method
}

// Args returns the Go values the call was packed from.
func (c *Call) Args() []any {
	return c.args
}

// Selector returns the 4-byte function selector.
func (c *Call) Selector() [4]byte {
	var sel [4]byte
	copy(sel[:], c.method.ID[:4])
	return sel
}

// Data returns a copy of the call data: selector followed by the ABI-encoded arguments.
func (c *Call) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}
