package parser

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Kind identifies the variant of a lexed content stream instruction
type Kind int

const (
	Unknown Kind = iota
	SetFont
	SetAbsolutePosition
	MoveRelative
	ShowText
	ShowTextArray
	BeginTextBlock
	EndTextBlock
)

func (k Kind) String() string {
	switch k {
	case SetFont:
		return "SetFont"
	case SetAbsolutePosition:
		return "SetAbsolutePosition"
	case MoveRelative:
		return "MoveRelative"
	case ShowText:
		return "ShowText"
	case ShowTextArray:
		return "ShowTextArray"
	case BeginTextBlock:
		return "BeginTextBlock"
	case EndTextBlock:
		return "EndTextBlock"
	default:
		return "Unknown"
	}
}

// operatorKinds is the operator vocabulary the interpreter understands.
// Everything else lexes as Unknown.
var operatorKinds = map[string]Kind{
	"Tf": SetFont,
	"Tm": SetAbsolutePosition,
	"Td": MoveRelative,
	"TD": MoveRelative,
	"Tj": ShowText,
	"TJ": ShowTextArray,
	"BT": BeginTextBlock,
	"ET": EndTextBlock,
}

// KindOf returns the instruction kind for an operator
func KindOf(operator string) Kind {
	return operatorKinds[operator]
}

// Operand is a value preceding an operator. Arrays carry their
// elements in Items.
type Operand struct {
	Type  TokenType
	Raw   string
	Value string
	Items []Operand
}

// IsArray reports whether the operand is an array
func (o Operand) IsArray() bool {
	return o.Type == TokenArrayStart
}

// IsString reports whether the operand is a literal or hex string
func (o Operand) IsString() bool {
	return o.Type == TokenString || o.Type == TokenHexString
}

// Bytes returns the character codes of a string operand
func (o Operand) Bytes() []byte {
	b := make([]byte, 0, len(o.Value))
	for _, r := range o.Value {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b = append(b, c)
	}
	return b
}

// Float converts a numeric operand
func (o Operand) Float() (float64, error) {
	if o.Type != TokenNumber {
		return 0, fmt.Errorf("operand %q is a %s, not a number", o.Raw, o.Type)
	}
	f, err := strconv.ParseFloat(o.Raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", o.Raw)
	}
	return f, nil
}

// Instruction is one operator with its operands, tagged by Kind
type Instruction struct {
	Kind     Kind
	Operator string
	Operands []Operand
	Line     int
}

func (i Instruction) String() string {
	parts := make([]string, 0, len(i.Operands)+1)
	for _, op := range i.Operands {
		parts = append(parts, op.Raw)
	}
	parts = append(parts, i.Operator)
	return strings.Join(parts, " ")
}

// Numbers returns the operands as numbers. It fails if the operand
// count differs from want or any operand is not a valid number.
func (i Instruction) Numbers(want int) ([]float64, error) {
	if len(i.Operands) != want {
		return nil, fmt.Errorf("%s: expected %d operands, got %d", i.Operator, want, len(i.Operands))
	}
	nums := make([]float64, want)
	for idx, op := range i.Operands {
		f, err := op.Float()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", i.Operator, err)
		}
		nums[idx] = f
	}
	return nums, nil
}

// FontSize returns the size operand of a Tf instruction
func (i Instruction) FontSize() (float64, error) {
	if len(i.Operands) != 2 || i.Operands[0].Type != TokenName {
		return 0, fmt.Errorf("%s: expected font name and size", i.Operator)
	}
	size, err := i.Operands[1].Float()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", i.Operator, err)
	}
	return size, nil
}

// Text returns the shown string of a Tj or TJ instruction. Array
// elements are concatenated; kerning adjustments are dropped.
func (i Instruction) Text() (string, bool) {
	return i.TextFunc(func(o Operand) string { return o.Value })
}

// TextFunc is Text with every shown string mapped through decode
func (i Instruction) TextFunc(decode func(Operand) string) (string, bool) {
	if len(i.Operands) == 0 {
		return "", false
	}
	last := i.Operands[len(i.Operands)-1]

	switch i.Kind {
	case ShowText:
		if !last.IsString() {
			return "", false
		}
		return decode(last), true
	case ShowTextArray:
		if !last.IsArray() {
			return "", false
		}
		var sb strings.Builder
		for _, item := range last.Items {
			if item.IsString() {
				sb.WriteString(decode(item))
			}
		}
		return sb.String(), true
	}
	return "", false
}

// FontName returns the font resource name of a Tf instruction
func (i Instruction) FontName() (string, bool) {
	if len(i.Operands) != 2 || i.Operands[0].Type != TokenName {
		return "", false
	}
	return i.Operands[0].Value, true
}
