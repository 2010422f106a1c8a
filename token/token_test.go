package token

import "testing"

func TestIsKeyword(t *testing.T) {
	tests := []struct {
		name    string
		lexeme  string
		want    TokenType
		wantOk  bool
	}{
		{name: "def is a keyword", lexeme: "def", want: DEF, wantOk: true},
		{name: "extern is a keyword", lexeme: "extern", want: EXTERN, wantOk: true},
		{name: "binary is a keyword", lexeme: "binary", want: BINARY, wantOk: true},
		{name: "global is a keyword", lexeme: "global", want: GLOBAL, wantOk: true},
		{name: "end is a keyword", lexeme: "end", want: END, wantOk: true},
		{name: "plain identifier is not a keyword", lexeme: "foo", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := IsKeyword(tt.lexeme)
			if ok != tt.wantOk {
				t.Fatalf("IsKeyword(%q) ok = %v, want %v", tt.lexeme, ok, tt.wantOk)
			}
			if ok && got != tt.want {
				t.Errorf("IsKeyword(%q) = %v, want %v", tt.lexeme, got, tt.want)
			}
		})
	}
}

func TestIsOperatorChar(t *testing.T) {
	for _, b := range []byte("<>=!&|~+-*/%$^") {
		if !IsOperatorChar(b) {
			t.Errorf("IsOperatorChar(%q) = false, want true", b)
		}
	}
	for _, b := range []byte("()[]{}, ;") {
		if IsOperatorChar(b) {
			t.Errorf("IsOperatorChar(%q) = true, want false", b)
		}
	}
}
