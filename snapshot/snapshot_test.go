// Package snapshot_test runs golden snapshot tests over the translation
// pipelines.
//
// Each JSON shader in testdata/in/ is translated for every dialect and the
// dump of the resulting tree is compared to testdata/golden/{metal,vulkan}/.
// Every translation is also checked to be deterministic.
//
// To regenerate golden files after intentional changes:
//
//	UPDATE_GOLDEN=1 go test ./snapshot/...
package snapshot_test

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/translator"
	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/astjson"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

type shaderFile struct {
	name string
	data []byte
}

var dialects = []target.Dialect{target.Metal, target.Vulkan}

func TestSnapshots(t *testing.T) {
	shaders := loadInputShaders(t, filepath.Join("testdata", "in"))
	if len(shaders) == 0 {
		t.Fatal("no input shaders found in testdata/in/")
	}

	for _, shader := range shaders {
		t.Run(shader.name, func(t *testing.T) {
			for _, d := range dialects {
				t.Run(d.String(), func(t *testing.T) {
					out := translate(t, shader, d)
					if again := translate(t, shader, d); again != out {
						t.Fatalf("translation is not deterministic:\n%s", diffStrings(out, again))
					}
					compareGolden(t, filepath.Join("testdata", "golden", d.String(), shader.name+".txt"), out)
				})
			}
		})
	}
}

func loadInputShaders(t *testing.T, dir string) []shaderFile {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read input directory %q: %v", dir, err)
	}
	var shaders []shaderFile
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			t.Fatalf("read shader %q: %v", entry.Name(), err)
		}
		shaders = append(shaders, shaderFile{name: strings.TrimSuffix(entry.Name(), ".json"), data: data})
	}
	slices.SortFunc(shaders, func(a, b shaderFile) int { return strings.Compare(a.name, b.name) })
	return shaders
}

// translate runs the full pipeline of d, with every option on, and returns
// the dump of the output tree.
func translate(t *testing.T, shader shaderFile, d target.Dialect) string {
	t.Helper()

	unit, err := astjson.Unmarshal(shader.data)
	if err != nil {
		t.Fatalf("[%s] decode failed: %v", shader.name, err)
	}
	opts := translator.DefaultOptions()
	opts.Dialect = d
	opts.Flags = pipeline.ValidateAST | pipeline.ValidateEachPass | pipeline.AddPreRotation |
		pipeline.TransformDepth | pipeline.ClampPointSize | pipeline.EmulateRasterizerDiscard |
		pipeline.RewriteRowMajorMatrices
	c, err := translator.Translate(unit, opts)
	if err != nil {
		t.Fatalf("[%s] translate failed: %v", shader.name, err)
	}
	return ast.DumpString(c.Tree)
}

func compareGolden(t *testing.T, path, actual string) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDEN") != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("write golden file: %v", err)
		}
		t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		t.Skipf("golden file missing: %s (run with UPDATE_GOLDEN=1 to create)", path)
	}
	if err != nil {
		t.Fatalf("read golden file %s: %v", path, err)
	}
	want := strings.ReplaceAll(string(expected), "\r\n", "\n")
	if want != actual {
		t.Errorf("output differs from golden %s:\n%s", path, diffStrings(want, actual))
	}
}

// diffStrings shows the first differing line with some context.
func diffStrings(expected, actual string) string {
	el := strings.Split(expected, "\n")
	al := strings.Split(actual, "\n")
	n := max(len(el), len(al))
	line := func(lines []string, i int) string {
		if i < len(lines) {
			return lines[i]
		}
		return ""
	}

	first := -1
	for i := range n {
		if line(el, i) != line(al, i) {
			first = i
			break
		}
	}
	if first < 0 {
		return "(no difference found)"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "first difference at line %d (expected %d lines, got %d):\n", first+1, len(el), len(al))
	for i := max(first-3, 0); i < min(first+4, n); i++ {
		e, a := line(el, i), line(al, i)
		if e == a {
			fmt.Fprintf(&sb, "  %4d  %s\n", i+1, e)
			continue
		}
		fmt.Fprintf(&sb, "- %4d  %s\n+ %4d  %s\n", i+1, e, i+1, a)
	}
	return sb.String()
}
