package parser

import (
	"strings"
)

// Lex splits a decoded content stream into physical lines and lexes
// each one. Line numbers are 1-based.
//
// Instructions are assumed to fit on one line: operands left over at
// the end of a line are dropped, so an operator whose operands begin
// on an earlier line is emitted without them.
func Lex(stream string) []Instruction {
	stream = strings.ReplaceAll(stream, "\r\n", "\n")
	stream = strings.ReplaceAll(stream, "\r", "\n")

	var instrs []Instruction
	for n, line := range strings.Split(stream, "\n") {
		instrs = append(instrs, LexLine(line, n+1)...)
	}
	return instrs
}

// LexLine lexes a single line into instructions. Lexical errors end
// the line; instructions completed before the error are kept.
func LexLine(line string, lineNo int) []Instruction {
	lexer := NewLexer(line)

	var (
		instrs   []Instruction
		operands []Operand
		// open arrays, innermost last
		arrays [][]Operand
	)

	push := func(op Operand) {
		if n := len(arrays); n > 0 {
			arrays[n-1] = append(arrays[n-1], op)
			return
		}
		operands = append(operands, op)
	}

	for {
		tok, err := lexer.NextToken()
		if err != nil || tok.Type == TokenEOF {
			return instrs
		}

		switch tok.Type {
		case TokenArrayStart:
			arrays = append(arrays, nil)
		case TokenArrayEnd:
			n := len(arrays)
			if n == 0 {
				continue
			}
			items := arrays[n-1]
			arrays = arrays[:n-1]
			push(Operand{Type: TokenArrayStart, Raw: "[...]", Items: items})
		case TokenKeyword:
			if isOperandKeyword(tok.Value) {
				push(Operand{Type: TokenKeyword, Raw: tok.Raw, Value: tok.Value})
				continue
			}
			instrs = append(instrs, Instruction{
				Kind:     KindOf(tok.Value),
				Operator: tok.Value,
				Operands: operands,
				Line:     lineNo,
			})
			operands = nil
			arrays = nil
		default:
			push(Operand{Type: tok.Type, Raw: tok.Raw, Value: tok.Value})
		}
	}
}

func isOperandKeyword(word string) bool {
	return word == "true" || word == "false" || word == "null"
}
