package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raymyers/sysyc/pkg/config"
	"github.com/raymyers/sysyc/pkg/irgen"
	"github.com/raymyers/sysyc/pkg/parser"
)

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestFlagsExist(t *testing.T) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)

	expectedFlags := []string{"koopa", "riscv", "dparse", "run", "verbose", "output", "config"}
	for _, flagName := range expectedFlags {
		if cmd.Flags().Lookup(flagName) == nil {
			t.Errorf("expected flag --%s to exist", flagName)
		}
	}
	if cmd.Flags().ShorthandLookup("o") == nil {
		t.Error("expected shorthand -o to exist")
	}
}

func TestNormalizeFlags(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"-koopa", "a.c", "-o", "a.koopa"}, []string{"--koopa", "a.c", "-o", "a.koopa"}},
		{[]string{"-riscv", "a.c"}, []string{"--riscv", "a.c"}},
		{[]string{"-ir", "-asm"}, []string{"--ir", "--asm"}},
		{[]string{"-dparse", "-run", "-verbose"}, []string{"--dparse", "--run", "--verbose"}},
		{[]string{"-config=x.yaml"}, []string{"--config=x.yaml"}},
		{[]string{"--koopa", "-v", "-"}, []string{"--koopa", "-v", "-"}},
		{[]string{"-unknown"}, []string{"-unknown"}},
	}
	for _, tt := range tests {
		got := normalizeFlags(tt.in)
		if strings.Join(got, " ") != strings.Join(tt.want, " ") {
			t.Errorf("normalizeFlags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// writeSource creates a source file in a temp dir and returns its path.
func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.c")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

// execute runs the root command with args after single-dash normalization.
func execute(args ...string) (string, string, error) {
	resetFlags()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(normalizeFlags(args))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestKoopaToStdout(t *testing.T) {
	path := writeSource(t, "int main() { return 1 + 2 * 3; }")
	out, errOut, err := execute("-koopa", path)
	if err != nil {
		t.Fatalf("unexpected error: %v (stderr %q)", err, errOut)
	}
	want := "fun @main(): i32 {\n%bb0:\n  %0 = mul 2, 3\n  %1 = add 1, %0\n  ret %1\n}\n"
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestAliasFlags(t *testing.T) {
	path := writeSource(t, "int main() { return 3; }")

	irOut, _, err := execute("-ir", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(irOut, "fun @main(): i32 {") {
		t.Errorf("--ir should emit Koopa IR, got %q", irOut)
	}

	asmOut, _, err := execute("-asm", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(asmOut, "li a0, 3") {
		t.Errorf("--asm should emit assembly, got %q", asmOut)
	}
}

func TestRISCVToFile(t *testing.T) {
	path := writeSource(t, "int main() { return 42; }")
	outPath := filepath.Join(t.TempDir(), "out.S")

	out, _, err := execute("-riscv", path, "-o", outPath)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("expected nothing on stdout when -o is given, got %q", out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	want := "  .text\n  .global main\nmain:\n  li a0, 42\n  ret\n"
	if string(data) != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", data, want)
	}
}

func TestDefaultModeIsRISCV(t *testing.T) {
	path := writeSource(t, "int main() { return 0; }")
	out, _, err := execute(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, ".global main") {
		t.Errorf("expected assembly by default, got %q", out)
	}
}

func TestDParse(t *testing.T) {
	path := writeSource(t, "int main(){const int a=1,b=2;int c;c=a+b*(2-1);return -c;}")
	out, _, err := execute("-dparse", path)
	if err != nil {
		t.Fatal(err)
	}
	want := `int main()
{
  const int a = 1, b = 2;
  int c;
  c = a + b * (2 - 1);
  return -c;
}
`
	if out != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", out, want)
	}
}

func TestRun(t *testing.T) {
	path := writeSource(t, "int main() { int a = 6; a = a * 7; return a; }")
	out, _, err := execute("-run", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "42\n" {
		t.Errorf("expected 42, got %q", out)
	}
}

func TestConflictingModes(t *testing.T) {
	path := writeSource(t, "int main() { return 0; }")
	_, errOut, err := execute("-koopa", "-riscv", path)
	if !errors.Is(err, ErrConflictingModes) {
		t.Fatalf("expected ErrConflictingModes, got %v", err)
	}
	if !strings.HasPrefix(errOut, "sysyc: ") {
		t.Errorf("expected diagnostic prefix, got %q", errOut)
	}
}

func TestMissingArgument(t *testing.T) {
	_, errOut, err := execute("-koopa")
	if !errors.Is(err, ErrNoInput) {
		t.Fatalf("expected ErrNoInput, got %v", err)
	}
	if errOut != "sysyc: no input file\n" {
		t.Errorf("unexpected diagnostic %q", errOut)
	}
}

func TestMissingInputFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.c")
	_, errOut, err := execute("-koopa", missing)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if !strings.Contains(errOut, "sysyc: "+missing+": ") {
		t.Errorf("expected diagnostic naming the file, got %q", errOut)
	}
}

func TestErrorsReportedAndNoOutputWritten(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		wantMsg string
	}{
		{"syntax", "int main() { return 1 }", parser.ErrSyntax, "syntax error"},
		{"undefined", "int main() { return x; }", irgen.ErrUndefined, "line 1, col 21: x: undefined identifier"},
		{"redeclared", "int main() { int a; int a; return 0; }", irgen.ErrRedeclared, "identifier redeclared"},
		{"assign to const", "int main() { const int a = 1; a = 2; return a; }", irgen.ErrAssignToConst, "assignment to constant"},
		{"const not constant", "int main() { int a = 1; const int b = a; return b; }", irgen.ErrNotConstant, "not a constant expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.src)
			outPath := filepath.Join(t.TempDir(), "out.koopa")

			out, errOut, err := execute("-koopa", path, "-o", outPath)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if out != "" {
				t.Errorf("expected no stdout, got %q", out)
			}
			if !strings.HasPrefix(errOut, "sysyc: "+path+": ") {
				t.Errorf("expected diagnostic prefix, got %q", errOut)
			}
			if !strings.Contains(errOut, tt.wantMsg) {
				t.Errorf("expected %q in diagnostic, got %q", tt.wantMsg, errOut)
			}
			if _, statErr := os.Stat(outPath); !errors.Is(statErr, os.ErrNotExist) {
				t.Errorf("output file should not exist after an error")
			}
		})
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sysyc.yaml")
	if err := os.WriteFile(cfgPath, []byte("mode: ir\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeSource(t, "int main() { return 5; }")

	out, _, err := execute("-config", cfgPath, path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "fun @main()") {
		t.Errorf("config mode should select Koopa output, got %q", out)
	}

	// Flags win over the file.
	out, _, err = execute("-config", cfgPath, "-riscv", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "li a0, 5") {
		t.Errorf("--riscv should override config mode, got %q", out)
	}
}

func TestConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	badMode := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badMode, []byte("mode: x86\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeSource(t, "int main() { return 5; }")

	_, errOut, err := execute("-config", badMode, path)
	if !errors.Is(err, config.ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
	if !strings.HasPrefix(errOut, "sysyc: ") {
		t.Errorf("expected diagnostic prefix, got %q", errOut)
	}

	_, _, err = execute("-config", filepath.Join(dir, "missing.yaml"), path)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("an explicit missing config should fail, got %v", err)
	}
}

func TestVerboseLogsStages(t *testing.T) {
	path := writeSource(t, "int main() { return 1 + 2; }")
	_, errOut, err := execute("-verbose", "-run", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"level=DEBUG", "msg=parsed", "lowered function", "generated function", "msg=simulated"} {
		if !strings.Contains(errOut, want) {
			t.Errorf("expected %q in verbose log, got %q", want, errOut)
		}
	}

	_, errOut, err = execute("-run", path)
	if err != nil {
		t.Fatal(err)
	}
	if errOut != "" {
		t.Errorf("expected quiet stderr without --verbose, got %q", errOut)
	}
}

func TestRunStepLimitFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sysyc.yaml")
	if err := os.WriteFile(cfgPath, []byte("max_steps: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := writeSource(t, "int main() { return 1; }")

	_, _, err := execute("-config", cfgPath, "-run", path)
	if err == nil || !strings.Contains(err.Error(), "step limit") {
		t.Errorf("expected step limit error, got %v", err)
	}
}
