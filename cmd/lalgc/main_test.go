package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/lalg/ll1"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	name = filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(name, []byte(content), 0o644))
	return name
}

func TestLex(t *testing.T) {
	out, _, e := execute(t, "alfa:= false;", "lex", "-")
	require.NoError(t, e)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "alfa"))

	_, errOut, e := execute(t, "a!b", "lex", "-")
	assert.ErrorIs(t, e, errDiagnostics)
	assert.Contains(t, errOut, "(100)")
}

func TestParse(t *testing.T) {
	name := writeFile(t, "ok.lalg", "program p; begin end.")
	out, _, e := execute(t, "", "parse", "--tree", name)
	require.NoError(t, e)
	assert.True(t, strings.HasPrefix(out, name+": accepted\n<program>\n"))

	name = writeFile(t, "bad.lalg", "program p;\nbegin x := 1 ) end.")
	out, errOut, e := execute(t, "", "parse", name)
	assert.ErrorIs(t, e, errDiagnostics)
	assert.Contains(t, out, "accepted with errors")
	assert.Contains(t, errOut, "(202)")
	assert.Contains(t, errOut, "(300)")
	assert.Contains(t, errOut, "\tbegin x := 1 ) end.\n\t      ^\n")
	assert.Contains(t, errOut, "\tbegin x := 1 ) end.\n\t             ^\n")
}

func TestParseFind(t *testing.T) {
	src := "program p; int a;\nbegin if a then a := 1; if a then write(a) else a := 2 end."
	out, _, e := execute(t, src, "parse", "--find", "<conditional_command>", "-")
	require.NoError(t, e)
	assert.Equal(t, "-: accepted\n"+
		"2:7\t<conditional_command>\tif a then a := 1\n"+
		"2:25\t<conditional_command>\tif a then write ( a ) else a := 2\n", out)

	out, _, e = execute(t, src, "parse", "--find", "<nothing>", "-")
	require.NoError(t, e)
	assert.Equal(t, "-: accepted\n", out)
}

func TestCompileCmd(t *testing.T) {
	out, errOut, e := execute(t, "program p; int x; begin end.", "compile", "-")
	assert.ErrorIs(t, e, errDiagnostics)
	assert.Contains(t, out, "variable")
	assert.Contains(t, errOut, "-: (301)")
}

func TestTables(t *testing.T) {
	out, _, e := execute(t, "", "tables")
	require.NoError(t, e)
	x, e := ll1.Decode(strings.NewReader(out), ll1.JSON)
	require.NoError(t, e)
	assert.Equal(t, "<program>", x.Start)

	out, _, e = execute(t, "", "tables", "-f", "cbor")
	require.NoError(t, e)
	x, e = ll1.Decode(strings.NewReader(out), ll1.CBOR)
	require.NoError(t, e)
	assert.NotEmpty(t, x.Table)

	_, _, e = execute(t, "", "tables", "-f", "xml")
	assert.Error(t, e)
}

func TestRun(t *testing.T) {
	name := writeFile(t, "sum.mepa", "INPP\nLEIT\nCRCT 3\nSOMA\nIMPR\nPARA\n")
	out, _, e := execute(t, "2\n", "run", name)
	require.NoError(t, e)
	assert.Equal(t, "5\n", out)

	_, _, e = execute(t, "INPP\nSOMAA\n", "run", "-")
	require.Error(t, e)
	assert.Contains(t, e.Error(), "did you mean SOMA?")

	_, _, e = execute(t, "INPP\nDSVS 1\n", "run", "--limit", "50", "-")
	assert.ErrorContains(t, e, "step limit")
}

func TestLangFlag(t *testing.T) {
	_, _, e := execute(t, "", "--lang", filepath.Join(t.TempDir(), "missing.json"), "tables")
	assert.Error(t, e)
}
