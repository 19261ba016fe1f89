package lexer

import (
	"errors"
	"strings"
	"testing"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func typesEqual(got, want []TokenType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TokenType
	}{
		{
			"promotion header",
			`promotion: "Summer Sale"` + "\n",
			[]TokenType{PROMOTION, COLON, STRING, NEWLINE, EOF},
		},
		{
			"condition line",
			"- A minimumSpending config.minAmount\n",
			[]TokenType{DASH, IDENT, IDENT, IDENT, DOT, IDENT, NEWLINE, EOF},
		},
		{
			"reward line with keyword",
			"- condition A discountPercentage config.discountPercent\n",
			[]TokenType{DASH, CONDITION, IDENT, IDENT, IDENT, DOT, IDENT, NEWLINE, EOF},
		},
		{
			"comparison operators",
			"a = 1 != 2 < 3 > 4 <= 5 >= 6\n",
			[]TokenType{IDENT, EQ, NUMBER, NOT_EQ, NUMBER, LT, NUMBER, GT, NUMBER, LTE, NUMBER, GTE, NUMBER, NEWLINE, EOF},
		},
		{
			"logical operators",
			"a && b || c\n",
			[]TokenType{IDENT, AND, IDENT, OR, IDENT, NEWLINE, EOF},
		},
		{
			"decimal number",
			"price >= 50.00\n",
			[]TokenType{IDENT, GTE, NUMBER, NEWLINE, EOF},
		},
		{
			"section keywords",
			"conditions:\nrewards:\n",
			[]TokenType{CONDITIONS, COLON, NEWLINE, REWARDS, COLON, NEWLINE, EOF},
		},
		{
			"comment skipped to end of line",
			"a # trailing comment\nb\n",
			[]TokenType{IDENT, NEWLINE, IDENT, NEWLINE, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize(%q): %v", tt.input, err)
			}
			if got := tokenTypes(tokens); !typesEqual(got, tt.want) {
				t.Errorf("token types = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenize_NewlineHandling(t *testing.T) {
	t.Run("consecutive breaks collapse", func(t *testing.T) {
		tokens, err := Tokenize("a\n\n\nb\n")
		if err != nil {
			t.Fatal(err)
		}
		want := []TokenType{IDENT, NEWLINE, IDENT, NEWLINE, EOF}
		if got := tokenTypes(tokens); !typesEqual(got, want) {
			t.Errorf("token types = %v, want %v", got, want)
		}
	})

	t.Run("leading breaks dropped", func(t *testing.T) {
		tokens, err := Tokenize("\n\na\n")
		if err != nil {
			t.Fatal(err)
		}
		if tokens[0].Type != IDENT {
			t.Errorf("first token = %v, want IDENT", tokens[0].Type)
		}
	})

	t.Run("final newline synthesized", func(t *testing.T) {
		tokens, err := Tokenize("a")
		if err != nil {
			t.Fatal(err)
		}
		want := []TokenType{IDENT, NEWLINE, EOF}
		if got := tokenTypes(tokens); !typesEqual(got, want) {
			t.Errorf("token types = %v, want %v", got, want)
		}
	})

	t.Run("empty input is just EOF", func(t *testing.T) {
		tokens, err := Tokenize("")
		if err != nil {
			t.Fatal(err)
		}
		want := []TokenType{EOF}
		if got := tokenTypes(tokens); !typesEqual(got, want) {
			t.Errorf("token types = %v, want %v", got, want)
		}
	})
}

func TestTokenize_Positions(t *testing.T) {
	tokens, err := Tokenize("promotion: \"X\"\n- A any\n")
	if err != nil {
		t.Fatal(err)
	}

	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("promotion at %d:%d, want 1:1", tokens[0].Line, tokens[0].Column)
	}

	// The DASH opening the second line.
	var dash Token
	for _, tok := range tokens {
		if tok.Type == DASH {
			dash = tok
			break
		}
	}
	if dash.Line != 2 || dash.Column != 1 {
		t.Errorf("dash at %d:%d, want 2:1", dash.Line, dash.Column)
	}
}

func TestTokenize_StringKeepsQuotes(t *testing.T) {
	tokens, err := Tokenize(`promotion: "Summer Sale"` + "\n")
	if err != nil {
		t.Fatal(err)
	}

	var str Token
	for _, tok := range tokens {
		if tok.Type == STRING {
			str = tok
			break
		}
	}
	if str.Literal != `"Summer Sale"` {
		t.Errorf("string literal = %q, want the quotes kept", str.Literal)
	}
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"unterminated string", `promotion: "Summer`, "unterminated string literal"},
		{"lone ampersand", "a & b\n", "unexpected character '&'"},
		{"lone pipe", "a | b\n", "unexpected character '|'"},
		{"lone bang", "a ! b\n", "unexpected character '!'"},
		{"illegal character", "a @ b\n", "unexpected character '@'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatalf("Tokenize(%q) succeeded, want error", tt.input)
			}

			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("error type = %T, want *LexError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantMsg)
			}
			if !strings.Contains(err.Error(), "line 1") {
				t.Errorf("error = %q, want a line position", err.Error())
			}
		})
	}
}

func TestTokenize_NumberForms(t *testing.T) {
	tokens, err := Tokenize("1 2.5 10.997 3.\n")
	if err != nil {
		t.Fatal(err)
	}

	// "3." lexes as NUMBER 3 followed by DOT; a trailing dot never joins
	// the number.
	want := []TokenType{NUMBER, NUMBER, NUMBER, NUMBER, DOT, NEWLINE, EOF}
	if got := tokenTypes(tokens); !typesEqual(got, want) {
		t.Fatalf("token types = %v, want %v", got, want)
	}
	if tokens[2].Literal != "10.997" {
		t.Errorf("literal = %q, want %q", tokens[2].Literal, "10.997")
	}
}
