package disasm

import (
	"encoding/binary"
	"fmt"
)

// OpCode selects the operation of a Udon VM instruction. It is stored as a
// 4-byte big-endian word at the start of every instruction.
type OpCode uint32

const (
	OpNop          OpCode = 0
	OpPush         OpCode = 1
	OpPop          OpCode = 2
	OpJumpIfFalse  OpCode = 4
	OpJump         OpCode = 5
	OpExtern       OpCode = 6
	OpAnnotation   OpCode = 7
	OpJumpIndirect OpCode = 8
	OpCopy         OpCode = 9

	opLast = OpCopy
)

// WordSize is the width of an opcode and of its operand.
const WordSize = 4

// operandKind decides whether an opcode carries an operand and how it is rendered.
type operandKind int

const (
	operandNone   operandKind = iota
	operandSymbol             // variable address resolved through the symbol table
	operandExtern             // heap address holding an extern signature string
	operandOffset             // byte offset into the same bytecode

	operandKindCount
)

type opInfo struct {
	name    string
	operand operandKind
}

// Index 3 is not assigned by the VM and stays zero, which marks it unknown.
var opTable = [...]opInfo{
	OpNop:          {"NOP", operandNone},
	OpPush:         {"PUSH", operandSymbol},
	OpPop:          {"POP", operandNone},
	OpJumpIfFalse:  {"JUMP_IF_FALSE", operandOffset},
	OpJump:         {"JUMP", operandOffset},
	OpExtern:       {"EXTERN", operandExtern},
	OpAnnotation:   {"ANNOTATION", operandNone},
	OpJumpIndirect: {"JUMP_INDIRECT", operandSymbol},
	OpCopy:         {"COPY", operandNone},
}

const opCount = int(opLast) + 1

// Both arrays fail to compile when opTable and opLast disagree.
var (
	_ [opCount - len(opTable)]struct{}
	_ [len(opTable) - opCount]struct{}
)

// Valid reports whether op is part of the instruction set.
func (op OpCode) Valid() bool {
	return uint64(op) < uint64(len(opTable)) && opTable[op].name != ""
}

func (op OpCode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("OpCode(0x%08X)", uint32(op))
	}
	return opTable[op].name
}

// HasOperand reports whether a 4-byte operand follows the opcode.
func (op OpCode) HasOperand() bool {
	return op.Valid() && opTable[op].operand != operandNone
}

// Size is the encoded length of an instruction using op, in bytes.
func (op OpCode) Size() int {
	if op.HasOperand() {
		return 2 * WordSize
	}
	return WordSize
}

// OpCodes returns every known opcode in numeric order.
func OpCodes() []OpCode {
	ops := make([]OpCode, 0, len(opTable))
	for i := range opTable {
		if op := OpCode(i); op.Valid() {
			ops = append(ops, op)
		}
	}
	return ops
}

// ParseOpCode looks an opcode up by its mnemonic.
func ParseOpCode(name string) (OpCode, bool) {
	for i, info := range opTable {
		if info.name != "" && info.name == name {
			return OpCode(i), true
		}
	}
	return 0, false
}

// AppendInst encodes one instruction onto buf. The operand is written only
// when op takes one.
func AppendInst(buf []byte, op OpCode, operand uint32) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(op))
	if op.HasOperand() {
		buf = binary.BigEndian.AppendUint32(buf, operand)
	}
	return buf
}
