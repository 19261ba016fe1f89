// Package lexer converts raw promotion DSL text into a flat, ordered
// sequence of typed tokens tagged with source line and column.
package lexer

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE // one or more consecutive line breaks

	// Literals
	IDENT  // condition names, function names, path segments
	NUMBER // [0-9]+(\.[0-9]+)?
	STRING // "..." with the surrounding quotes kept in the literal

	// Keywords
	PROMOTION
	CONDITIONS
	REWARDS
	CONDITION

	// Operators
	AND    // &&
	OR     // ||
	EQ     // =
	NOT_EQ // !=
	LT     // <
	GT     // >
	LTE    // <=
	GTE    // >=

	// Structural
	COLON // :
	DASH  // -
	DOT   // .
)

// Token is one lexeme with its source position. Tokens are created by the
// lexer, consumed once by the parser, and never mutated.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

// The section keywords get dedicated token kinds so the grammar can tell
// them apart from ordinary identifiers without lookahead.
var keywords = map[string]TokenType{
	"promotion":  PROMOTION,
	"conditions": CONDITIONS,
	"rewards":    REWARDS,
	"condition":  CONDITION,
}

func lookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

func (t TokenType) String() string {
	switch t {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case PROMOTION:
		return "promotion"
	case CONDITIONS:
		return "conditions"
	case REWARDS:
		return "rewards"
	case CONDITION:
		return "condition"
	case AND:
		return "&&"
	case OR:
		return "||"
	case EQ:
		return "="
	case NOT_EQ:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LTE:
		return "<="
	case GTE:
		return ">="
	case COLON:
		return ":"
	case DASH:
		return "-"
	case DOT:
		return "."
	default:
		return "UNKNOWN"
	}
}
