package irgen

import (
	"errors"
	"strings"
	"testing"

	"github.com/raymyers/sysyc/pkg/koopa"
	"github.com/raymyers/sysyc/pkg/parser"
)

func buildSource(t *testing.T, src string) (*koopa.Program, error) {
	t.Helper()
	cu, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Build(cu)
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{
			name: "return literal",
			src:  "int main() { return 0; }",
			expected: `fun @main(): i32 {
%bb0:
  ret 0
}
`,
		},
		{
			name: "const folds to literal",
			src:  "int main() { const int x = 3 + 4; return x; }",
			expected: `fun @main(): i32 {
%bb0:
  ret 7
}
`,
		},
		{
			name: "const chain",
			src:  "int main() { const int a = 2, b = a * 3; const int c = (b + a) / 2; return c; }",
			expected: `fun @main(): i32 {
%bb0:
  ret 4
}
`,
		},
		{
			name: "comparison",
			src:  "int main() { return 1 < 2; }",
			expected: `fun @main(): i32 {
%bb0:
  %0 = lt 1, 2
  ret %0
}
`,
		},
		{
			name: "unary operators",
			src:  "int main() { return -!+5; }",
			expected: `fun @main(): i32 {
%bb0:
  %0 = eq 5, 0
  %1 = sub 0, %0
  ret %1
}
`,
		},
		{
			name: "eager logical encoding",
			src:  "int main() { return (1 || 0) && (0 == 0); }",
			expected: `fun @main(): i32 {
%bb0:
  %0 = or 1, 0
  %1 = ne %0, 0
  %2 = ne %1, 0
  %3 = eq 0, 0
  %4 = ne %3, 0
  %5 = and %2, %4
  ret %5
}
`,
		},
		{
			name: "arithmetic precedence",
			src:  "int main() { return 10 / 3 - 10 % 3; }",
			expected: `fun @main(): i32 {
%bb0:
  %0 = div 10, 3
  %1 = mod 10, 3
  %2 = sub %0, %1
  ret %2
}
`,
		},
		{
			name: "variables",
			src:  "int main() { int a = 1, b; a = a + 2; return a; }",
			expected: `fun @main(): i32 {
%bb0:
  @a = alloc i32
  store 1, @a
  @b = alloc i32
  %0 = load @a
  %1 = add %0, 2
  store %1, @a
  %2 = load @a
  ret %2
}
`,
		},
		{
			name: "const mixed with variable",
			src:  "int main() { const int k = 5; int v = k; return v * k; }",
			expected: `fun @main(): i32 {
%bb0:
  @v = alloc i32
  store 5, @v
  %0 = load @v
  %1 = mul %0, 5
  ret %1
}
`,
		},
		{
			name: "statements after return open a block",
			src:  "int main() { return 1; return 2; }",
			expected: `fun @main(): i32 {
%bb0:
  ret 1
%bb1:
  ret 2
}
`,
		},
		{
			name: "missing return gets ret 0",
			src:  "int main() { int a = 1; }",
			expected: `fun @main(): i32 {
%bb0:
  @a = alloc i32
  store 1, @a
  ret 0
}
`,
		},
		{
			name: "function name keeps identifier",
			src:  "int start() { return 3; }",
			expected: `fun @start(): i32 {
%bb0:
  ret 3
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := buildSource(t, tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := prog.String(); got != tt.expected {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.expected)
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{"undefined in return", "int main() { return y; }", ErrUndefined, "line 1, col 21: y"},
		{"undefined in const", "int main() { const int a = b + 1; return a; }", ErrUndefined, "b: undefined identifier"},
		{"undefined assign target", "int main() { z = 1; return 0; }", ErrUndefined, "z"},
		{"self reference in initializer", "int main() { int a = a; return a; }", ErrUndefined, "a"},
		{"redeclared const", "int main() { const int a = 1, a = 2; return a; }", ErrRedeclared, "a"},
		{"var shadows const", "int main() { const int a = 1; int a; return a; }", ErrRedeclared, "a"},
		{"const shadows var", "int main() { int a; const int a = 1; return a; }", ErrRedeclared, "a"},
		{"variable in const", "int main() { int a = 1; const int b = a; return b; }", ErrNotConstant, "a"},
		{"assign to const", "int main() { const int a = 1; a = 2; return a; }", ErrAssignToConst, "a"},
		{"const division by zero", "int main() { const int a = 1 / 0; return a; }", koopa.ErrDivisionByZero, "a: division by zero"},
		{"const modulo by zero", "int main() { const int a = 1 % (2 - 2); return a; }", koopa.ErrDivisionByZero, "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := buildSource(t, tt.src)
			if err == nil {
				t.Fatalf("expected error, got program:\n%s", prog)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			var se *SemanticError
			if !errors.As(err, &se) {
				t.Errorf("expected *SemanticError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestBlockLabelsFromBuilderState(t *testing.T) {
	prog, err := buildSource(t, "int main() { return 1; return 2; return 3; }")
	if err != nil {
		t.Fatal(err)
	}
	fn := prog.Funcs[0]
	if len(fn.Layout) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(fn.Layout))
	}
	for i, bb := range fn.Layout {
		want := "%bb" + string(rune('0'+i))
		if got := fn.DFG.BB(bb).Name; got != want {
			t.Errorf("block %d: label %q, want %q", i, got, want)
		}
	}
}

func TestEveryBlockTerminated(t *testing.T) {
	srcs := []string{
		"int main() { }",
		"int main() { int a; a = 2; }",
		"int main() { return 1; int b = 2; }",
	}
	for _, src := range srcs {
		prog, err := buildSource(t, src)
		if err != nil {
			t.Fatalf("%s: %v", src, err)
		}
		fn := prog.Funcs[0]
		for _, bb := range fn.Layout {
			if !fn.Terminated(bb) {
				t.Errorf("%s: block %s not terminated", src, fn.DFG.BB(bb).Name)
			}
		}
	}
}
