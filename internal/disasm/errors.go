package disasm

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedProgram is returned for an unknown opcode or a word cut
	// short by the end of the bytecode.
	ErrMalformedProgram = errors.New("malformed program")

	// ErrMissingHeapValue is returned when an EXTERN operand names a heap
	// address the heap does not hold.
	ErrMissingHeapValue = errors.New("missing heap value")
)

// DecodeError describes where a disassembly pass stopped.
type DecodeError struct {
	Addr   uint32 // start of the failing instruction
	Op     OpCode
	Err    error
	Detail string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%v at %s: %s", e.Err, FormatAddr(e.Addr), e.Detail)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
