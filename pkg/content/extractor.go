package content

import (
	"math"

	"github.com/pyhub-apps/pdffill-golang/pkg/parser"
)

// RunKind tells which show operator drew a run
type RunKind int

const (
	ShowSingle RunKind = iota
	ShowArray
)

func (k RunKind) String() string {
	if k == ShowArray {
		return "array"
	}
	return "single"
}

// Run is a piece of shown text with the position it was drawn at
type Run struct {
	Text     string
	X        float64
	Y        float64
	FontSize float64
	Kind     RunKind
	Line     int
}

// RunFilter decides whether a shown string is kept as a run
type RunFilter func(text string) bool

// CodeDecoder maps the bytes shown with a font to text. It returns
// false when it has no mapping for the font.
type CodeDecoder func(font string, code []byte) (string, bool)

// Option configures an Interpreter
type Option func(*Interpreter)

// WithDefaultFontSize sets the size used when a block has no Tf
func WithDefaultFontSize(size float64) Option {
	return func(in *Interpreter) {
		in.defaultFontSize = size
	}
}

// WithRunFilter keeps only runs whose text satisfies filter
func WithRunFilter(filter RunFilter) Option {
	return func(in *Interpreter) {
		in.filter = filter
	}
}

// WithCodeDecoder decodes shown strings through the font of the block
// instead of taking their bytes as text
func WithCodeDecoder(decode CodeDecoder) Option {
	return func(in *Interpreter) {
		in.decode = decode
	}
}

// Interpreter folds TextState across an instruction sequence and
// collects the runs shown inside text blocks.
type Interpreter struct {
	defaultFontSize float64
	filter          RunFilter
	decode          CodeDecoder
	state           TextState
}

// NewInterpreter creates an interpreter positioned outside any text block
func NewInterpreter(opts ...Option) *Interpreter {
	in := &Interpreter{defaultFontSize: DefaultFontSize}
	for _, opt := range opts {
		opt(in)
	}
	in.state = NewTextState(in.defaultFontSize)
	return in
}

// State returns a copy of the current text state
func (in *Interpreter) State() TextState {
	return in.state
}

// Interpret runs all instructions and returns the kept runs in order
func (in *Interpreter) Interpret(instrs []parser.Instruction) []Run {
	var runs []Run
	for _, ins := range instrs {
		if run, ok := in.Step(ins); ok {
			runs = append(runs, run)
		}
	}
	return runs
}

// Step applies one instruction. It returns a run when the instruction
// showed text inside a text block that passes the filter.
func (in *Interpreter) Step(ins parser.Instruction) (Run, bool) {
	switch ins.Kind {
	case parser.BeginTextBlock:
		in.state = NewTextState(in.defaultFontSize)
		in.state.InsideTextBlock = true

	case parser.EndTextBlock:
		in.state.InsideTextBlock = false

	case parser.SetFont:
		if !in.state.InsideTextBlock {
			return Run{}, false
		}
		size, err := ins.FontSize()
		if err != nil {
			return Run{}, false
		}
		// run sizes stay positive; a zero size takes the default
		size = math.Abs(size)
		if size == 0 {
			size = in.defaultFontSize
		}
		in.state.FontSize = size
		in.state.FontName, _ = ins.FontName()

	case parser.SetAbsolutePosition:
		if !in.state.InsideTextBlock {
			return Run{}, false
		}
		m, err := ins.Numbers(6)
		if err != nil {
			return Run{}, false
		}
		in.state.SetAbsolute(m[4], m[5])

	case parser.MoveRelative:
		if !in.state.InsideTextBlock {
			return Run{}, false
		}
		d, err := ins.Numbers(2)
		if err != nil {
			return Run{}, false
		}
		in.state.MoveRelative(d[0], d[1])

	case parser.ShowText, parser.ShowTextArray:
		if !in.state.InsideTextBlock {
			return Run{}, false
		}
		return in.show(ins)
	}

	return Run{}, false
}

func (in *Interpreter) show(ins parser.Instruction) (Run, bool) {
	text, ok := ins.TextFunc(in.decodeOperand)
	if !ok {
		return Run{}, false
	}
	if in.filter != nil && !in.filter(text) {
		return Run{}, false
	}

	kind := ShowSingle
	if ins.Kind == parser.ShowTextArray {
		kind = ShowArray
	}

	x, y := in.state.Position()
	return Run{
		Text:     text,
		X:        x,
		Y:        y,
		FontSize: in.state.FontSize,
		Kind:     kind,
		Line:     ins.Line,
	}, true
}

func (in *Interpreter) decodeOperand(o parser.Operand) string {
	if in.decode == nil {
		return o.Value
	}
	if text, ok := in.decode(in.state.FontName, o.Bytes()); ok {
		return text
	}
	return o.Value
}

// Interpret folds a fresh interpreter over instrs
func Interpret(instrs []parser.Instruction, opts ...Option) []Run {
	return NewInterpreter(opts...).Interpret(instrs)
}

// ExtractRuns lexes a decoded content stream and interprets it
func ExtractRuns(stream string, opts ...Option) []Run {
	return Interpret(parser.Lex(stream), opts...)
}
