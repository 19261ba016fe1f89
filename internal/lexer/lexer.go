package lexer

import "fmt"

// LexError reports a malformed character sequence. It is fatal to
// tokenizing; nothing sensible can be parsed past it.
type LexError struct {
	Line   int
	Column int
	Char   byte
	Msg    string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// Lexer scans DSL text strictly left to right, one byte of lookahead,
// no backtracking.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // reading position (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

// New creates a lexer over the given source text.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// Tokenize scans the whole input and returns the token sequence,
// terminated by an EOF token. Runs of consecutive line breaks collapse
// into a single NEWLINE token; leading line breaks are dropped; a NEWLINE
// is synthesized before EOF when the source does not end with one, so the
// parser can treat every condition and reward line as NEWLINE-terminated.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token

	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok.Type == NEWLINE {
			if len(tokens) == 0 || tokens[len(tokens)-1].Type == NEWLINE {
				continue
			}
		}
		if tok.Type == EOF {
			if len(tokens) > 0 && tokens[len(tokens)-1].Type != NEWLINE {
				tokens = append(tokens, Token{Type: NEWLINE, Literal: "\n", Line: tok.Line, Column: tok.Column})
			}
			tokens = append(tokens, tok)
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// next scans a single token.
func (l *Lexer) next() (Token, error) {
	l.skipSpace()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case '\n':
		tok.Type = NEWLINE
		tok.Literal = "\n"
	case '&':
		if l.peekChar() != '&' {
			return tok, l.errorf("unexpected character '&'")
		}
		l.readChar()
		tok.Type = AND
		tok.Literal = "&&"
	case '|':
		if l.peekChar() != '|' {
			return tok, l.errorf("unexpected character '|'")
		}
		l.readChar()
		tok.Type = OR
		tok.Literal = "||"
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = GTE
			tok.Literal = ">="
		} else {
			tok.Type = GT
			tok.Literal = ">"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type = LTE
			tok.Literal = "<="
		} else {
			tok.Type = LT
			tok.Literal = "<"
		}
	case '!':
		if l.peekChar() != '=' {
			return tok, l.errorf("unexpected character '!'")
		}
		l.readChar()
		tok.Type = NOT_EQ
		tok.Literal = "!="
	case '=':
		tok.Type = EQ
		tok.Literal = "="
	case ':':
		tok.Type = COLON
		tok.Literal = ":"
	case '-':
		tok.Type = DASH
		tok.Literal = "-"
	case '.':
		tok.Type = DOT
		tok.Literal = "."
	case '"':
		lit, err := l.readString()
		if err != nil {
			return tok, err
		}
		tok.Type = STRING
		tok.Literal = lit
		return tok, nil
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		return tok, nil
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = lookupIdent(tok.Literal)
			return tok, nil
		}
		if isDigit(l.ch) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok, nil
		}
		return tok, l.errorf("unexpected character %q", l.ch)
	}

	l.readChar()
	return tok, nil
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipSpace skips blanks and #-comments. Line breaks are significant and
// are left for next() to token-ize.
func (l *Lexer) skipSpace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

// readNumber scans [0-9]+(\.[0-9]+)?. No sign, no exponent.
func (l *Lexer) readNumber() string {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[start:l.position]
}

// readString scans a double-quoted literal. The returned literal keeps
// the surrounding quotes; the parser strips them when it materializes the
// value. No escape processing. Reaching end of line or end of input
// before the closing quote is a lex error.
func (l *Lexer) readString() (string, error) {
	start := l.position
	for {
		l.readChar()
		if l.ch == '"' {
			l.readChar()
			return l.input[start:l.position], nil
		}
		if l.ch == '\n' || l.ch == 0 {
			return "", &LexError{
				Line:   l.line,
				Column: l.column,
				Char:   l.ch,
				Msg:    "unterminated string literal",
			}
		}
	}
}

func (l *Lexer) errorf(format string, args ...any) error {
	return &LexError{
		Line:   l.line,
		Column: l.column,
		Char:   l.ch,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
