package parser

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// TokenType represents the type of a content stream token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenString
	TokenHexString
	TokenName
	TokenKeyword
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenHexString:
		return "HexString"
	case TokenName:
		return "Name"
	case TokenKeyword:
		return "Keyword"
	case TokenArrayStart:
		return "ArrayStart"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenDictStart:
		return "DictStart"
	case TokenDictEnd:
		return "DictEnd"
	default:
		return "Unknown"
	}
}

// Token is a single lexical token of a content stream line.
// Raw holds the source text; Value holds the decoded payload of
// strings, hex strings and names.
type Token struct {
	Type  TokenType
	Raw   string
	Value string
}

// Lexer tokenizes one physical line of a decoded content stream.
type Lexer struct {
	src []rune
	pos int
}

// NewLexer creates a lexer over a single line
func NewLexer(line string) *Lexer {
	return &Lexer{src: []rune(line)}
}

// Position returns the current rune offset in the line
func (l *Lexer) Position() int {
	return l.pos
}

// NextToken returns the next token from the line. At the end of the
// line it returns a TokenEOF token and a nil error.
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespaceAndComments()
	if l.pos >= len(l.src) {
		return &Token{Type: TokenEOF}, nil
	}

	ch := l.src[l.pos]
	switch ch {
	case '[':
		l.pos++
		return &Token{Type: TokenArrayStart, Raw: "["}, nil
	case ']':
		l.pos++
		return &Token{Type: TokenArrayEnd, Raw: "]"}, nil
	case '<':
		if l.peek(1) == '<' {
			l.pos += 2
			return &Token{Type: TokenDictStart, Raw: "<<"}, nil
		}
		return l.readHexString()
	case '>':
		if l.peek(1) != '>' {
			l.pos++
			return nil, fmt.Errorf("unexpected '>' at offset %d", l.pos-1)
		}
		l.pos += 2
		return &Token{Type: TokenDictEnd, Raw: ">>"}, nil
	case '(':
		return l.readString()
	case '/':
		return l.readName()
	case '+', '-', '.', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return l.readNumber(), nil
	case ')', '{', '}':
		l.pos++
		return nil, fmt.Errorf("unexpected %q at offset %d", ch, l.pos-1)
	default:
		return l.readKeyword(), nil
	}
}

func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// skipWhitespaceAndComments skips whitespace and a trailing comment
func (l *Lexer) skipWhitespaceAndComments() {
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isWhitespace(ch) {
			l.pos++
			continue
		}
		if ch == '%' {
			l.pos = len(l.src)
		}
		return
	}
}

// readNumber reads a number token. The raw text is kept as is;
// malformed numbers such as "1.2.3" fail later when converted.
func (l *Lexer) readNumber() *Token {
	start := l.pos
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9') {
			l.pos++
			continue
		}
		break
	}
	raw := string(l.src[start:l.pos])
	return &Token{Type: TokenNumber, Raw: raw, Value: raw}
}

// readString reads a literal string token, resolving escapes
func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.pos++ // consume opening (

	var buf strings.Builder
	depth := 1
	for depth > 0 {
		if l.pos >= len(l.src) {
			return nil, fmt.Errorf("unterminated string at offset %d", start)
		}
		ch := l.src[l.pos]
		l.pos++

		switch ch {
		case '\\':
			if l.pos >= len(l.src) {
				// line continuation; the rest lives on the next line
				return nil, fmt.Errorf("unterminated string at offset %d", start)
			}
			esc := l.src[l.pos]
			l.pos++
			switch esc {
			case 'n':
				buf.WriteRune('\n')
			case 'r':
				buf.WriteRune('\r')
			case 't':
				buf.WriteRune('\t')
			case 'b':
				buf.WriteRune('\b')
			case 'f':
				buf.WriteRune('\f')
			case '0', '1', '2', '3', '4', '5', '6', '7':
				octal := []rune{esc}
				for i := 0; i < 2 && l.pos < len(l.src); i++ {
					next := l.src[l.pos]
					if next < '0' || next > '7' {
						break
					}
					octal = append(octal, next)
					l.pos++
				}
				val, _ := strconv.ParseUint(string(octal), 8, 16)
				buf.WriteRune(decodeByte(byte(val)))
			default:
				buf.WriteRune(esc)
			}
		case '(':
			depth++
			buf.WriteRune(ch)
		case ')':
			depth--
			if depth > 0 {
				buf.WriteRune(ch)
			}
		default:
			buf.WriteRune(ch)
		}
	}

	return &Token{Type: TokenString, Raw: string(l.src[start:l.pos]), Value: buf.String()}, nil
}

// readHexString reads a hexadecimal string token
func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.pos++ // consume <

	var digits []byte
	for {
		if l.pos >= len(l.src) {
			return nil, fmt.Errorf("unterminated hex string at offset %d", start)
		}
		ch := l.src[l.pos]
		l.pos++
		if ch == '>' {
			break
		}
		if isHexDigit(ch) {
			digits = append(digits, byte(ch))
		} else if !isWhitespace(ch) {
			return nil, fmt.Errorf("invalid character %q in hex string at offset %d", ch, l.pos-1)
		}
	}

	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}

	var buf strings.Builder
	for i := 0; i < len(digits); i += 2 {
		val, err := strconv.ParseUint(string(digits[i:i+2]), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex string: %w", err)
		}
		buf.WriteRune(decodeByte(byte(val)))
	}

	return &Token{Type: TokenHexString, Raw: string(l.src[start:l.pos]), Value: buf.String()}, nil
}

// readName reads a name token
func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.pos++ // consume /

	var buf strings.Builder
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isDelimiter(ch) || isWhitespace(ch) {
			break
		}
		l.pos++

		if ch == '#' && l.pos+1 < len(l.src) {
			val, err := strconv.ParseUint(string(l.src[l.pos:l.pos+2]), 16, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid hex escape in name at offset %d", l.pos-1)
			}
			buf.WriteByte(byte(val))
			l.pos += 2
			continue
		}
		buf.WriteRune(ch)
	}

	return &Token{Type: TokenName, Raw: string(l.src[start:l.pos]), Value: buf.String()}, nil
}

// readKeyword reads an operator or a bare keyword such as true/null
func (l *Lexer) readKeyword() *Token {
	start := l.pos
	for l.pos < len(l.src) {
		ch := l.src[l.pos]
		if isDelimiter(ch) || isWhitespace(ch) {
			break
		}
		l.pos++
	}
	raw := string(l.src[start:l.pos])
	return &Token{Type: TokenKeyword, Raw: raw, Value: raw}
}

// decodeByte maps a string byte to a rune the way WinAnsi-encoded
// simple fonts would draw it.
func decodeByte(b byte) rune {
	return charmap.Windows1252.DecodeByte(b)
}

// Helper functions
func isWhitespace(ch rune) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == 0
}

func isDelimiter(ch rune) bool {
	return ch == '(' || ch == ')' || ch == '<' || ch == '>' ||
		ch == '[' || ch == ']' || ch == '{' || ch == '}' ||
		ch == '/' || ch == '%'
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'F') || (ch >= 'a' && ch <= 'f')
}
