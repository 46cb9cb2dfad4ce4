package vm_test

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/emberlang/ember/internal/filetest"
	"github.com/emberlang/ember/lang/compiler"
	"github.com/emberlang/ember/lang/heap"
	"github.com/emberlang/ember/lang/vm"
	"github.com/stretchr/testify/require"
)

var testUpdateGoldenTests = flag.Bool("test.update-golden-tests", false,
	"If set, replace expected script output with actual output.")

// TestScripts runs every .ember file in testdata/in and diffs its PRINT
// output against testdata/out/<name>.want, the golden-file harness also
// used for compiler testdata trees elsewhere in this module.
func TestScripts(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".ember") {
		t.Run(fi.Name(), func(t *testing.T) {
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)

			h := heap.New()
			fn, errs := compiler.New(h).Compile(src)
			require.Empty(t, errs)

			var out bytes.Buffer
			machine := vm.New(h, &out)
			_, rerr := machine.Interpret(fn)
			require.Nil(t, rerr, "unexpected runtime error: %v", rerr)

			filetest.DiffOutput(t, fi, out.String(), resultDir, testUpdateGoldenTests)
		})
	}
}
