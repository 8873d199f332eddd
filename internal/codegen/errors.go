package codegen

import "fmt"

// ErrKind is the assembler's fatal-error taxonomy, exposed as a typed,
// comparable value rather than a bare error string — callers that want to
// branch on the kind of failure (a CLI exit code, a test assertion) don't
// have to pattern-match error text.
type ErrKind struct{ k int }

var (
	ErrUnknownInstruction  = ErrKind{1}
	ErrUnknownDirective    = ErrKind{2}
	ErrArgMatch            = ErrKind{3}
	ErrBadOperandType      = ErrKind{4}
	ErrImmediateRange      = ErrKind{5}
	ErrShortBranchRange    = ErrKind{6}
	ErrRegisterBranchR0    = ErrKind{7}
	ErrSpecialRegConflict  = ErrKind{8}
	ErrDuplicateLabel      = ErrKind{9}
	ErrUnresolvedSymbol    = ErrKind{10}
	ErrBadDirectiveOperand = ErrKind{11}
)

var errKindNames = map[ErrKind]string{
	ErrUnknownInstruction:  "UnknownInstruction",
	ErrUnknownDirective:    "UnknownDirective",
	ErrArgMatch:            "ArgMatch",
	ErrBadOperandType:      "BadOperandType",
	ErrImmediateRange:      "ImmediateRange",
	ErrShortBranchRange:    "ShortBranchRange",
	ErrRegisterBranchR0:    "RegisterBranchR0",
	ErrSpecialRegConflict:  "SpecialRegConflict",
	ErrDuplicateLabel:      "DuplicateLabel",
	ErrUnresolvedSymbol:    "UnresolvedSymbol",
	ErrBadDirectiveOperand: "BadDirectiveOperand",
}

func (k ErrKind) String() string {
	if s, ok := errKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// Error is the error type every codegen operation returns. By convention
// it is fatal to the current statement — the driver in cmd/rasm reports
// it and exits non-zero.
type Error struct {
	Kind    ErrKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
