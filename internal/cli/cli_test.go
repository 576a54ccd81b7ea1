package cli

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/internal/config"
	"github.com/silky/ml-tools/internal/logger"
)

const singlePointProblem = `
kernel:
  type: rbf
  alpha: 1
  lengthscales: [1]
  jitter: 0
noise: 0.01
train:
  x: [[0], [5]]
  y: [1, 0]
test:
  x: [[0]]
`

const linearProblem = `
kernel:
  type: bias
noise: 0.000001
train:
  x: [[0], [1], [2], [3]]
  y: [1, 3, 5, 7]
`

func writeProblem(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "problem.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = Run(args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestKernelCommand(t *testing.T) {
	path := writeProblem(t, singlePointProblem)
	out, _, err := run(t, "kernel", "-f", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "⎡"))
	assert.True(t, strings.HasPrefix(lines[1], "⎣"))
}

func TestKernelCommandCross(t *testing.T) {
	path := writeProblem(t, singlePointProblem)
	out, _, err := run(t, "kernel", "--test", "-f", path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)

	path = writeProblem(t, linearProblem)
	_, _, err = run(t, "kernel", "--test", "-f", path)
	assert.ErrorContains(t, err, "no test inputs")
}

func TestKernelCommandDebugLogging(t *testing.T) {
	path := writeProblem(t, singlePointProblem)
	_, stderr, err := run(t, "--debug", "kernel", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "kernel.computed")
	assert.Contains(t, stderr, "rows=2")
}

func TestLoggerRestoredAfterFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	err := Run([]string{"--debug", "predict", "-f", filepath.Join(t.TempDir(), "nope.yaml")}, &out, &errOut)
	require.Error(t, err)
	require.Contains(t, errOut.String(), "logger.initialized")

	logger.L().Info("after the command")
	assert.NotContains(t, errOut.String(), "after the command")
	assert.False(t, logger.L().Enabled(context.Background(), slog.LevelDebug))
}

func TestFileFlagIsRequired(t *testing.T) {
	for _, sub := range []string{"kernel", "predict", "regress"} {
		_, _, err := run(t, sub)
		assert.ErrorContains(t, err, `required flag(s) "file" not set`, sub)
	}
}

func TestMissingProblemFile(t *testing.T) {
	_, _, err := run(t, "predict", "-f", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, config.ErrNotFound)
}

func TestPredictCommand(t *testing.T) {
	path := writeProblem(t, singlePointProblem)
	p, err := config.LoadProblem(path)
	require.NoError(t, err)

	post, err := posterior(p)
	require.NoError(t, err)
	// The far-away second training point barely matters.
	assert.InDelta(t, 1/1.01, post.Mean.AtVec(0), 1e-9)
	assert.InDelta(t, 1-1/1.01, post.Cov.At(0, 0), 1e-9)

	out, _, err := run(t, "predict", "-f", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "mean")
	assert.Contains(t, lines[1], "0.9901")
	assert.Contains(t, lines[1], "0.0995")
}

func TestPredictCrossCovarianceHasNoJitter(t *testing.T) {
	path := writeProblem(t, `
kernel:
  type: rbf
  lengthscales: [1]
noise: 0.01
train:
  x: [[0], [5]]
  y: [1, 0]
test:
  x: [[2]]
`)
	p, err := config.LoadProblem(path)
	require.NoError(t, err)
	post, err := posterior(p)
	require.NoError(t, err)

	const jitter = 1e-5
	d := 1 + jitter + 0.01
	off := math.Exp(-12.5)
	b := mat.NewSymDense(2, []float64{d, off, off, d})
	c := mat.NewVecDense(2, []float64{math.Exp(-2), math.Exp(-4.5)})
	var alpha, bc mat.VecDense
	require.NoError(t, alpha.SolveVec(b, mat.NewVecDense(2, []float64{1, 0})))
	require.NoError(t, bc.SolveVec(b, c))

	assert.InDelta(t, mat.Dot(c, &alpha), post.Mean.AtVec(0), 1e-12)
	assert.InDelta(t, 1+jitter-mat.Dot(c, &bc), post.Cov.At(0, 0), 1e-12)

	out, _, err := run(t, "kernel", "--test", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0.13533")
}

func TestPredictRequiresTestInputs(t *testing.T) {
	path := writeProblem(t, linearProblem)
	_, _, err := run(t, "predict", "-f", path)
	assert.ErrorContains(t, err, "no test inputs")
}

func TestConjugateCommand(t *testing.T) {
	out, _, err := run(t, "conjugate", "--prior-mean", "0", "--prior-var", "1", "--lik-mean", "2", "--lik-var", "1")
	require.NoError(t, err)
	assert.Equal(t, "mean=1 variance=0.5\n", out)

	_, _, err = run(t, "conjugate", "--prior-var", "0")
	assert.ErrorIs(t, err, errVariance)
}

func TestRegress(t *testing.T) {
	path := writeProblem(t, linearProblem)
	p, err := config.LoadProblem(path)
	require.NoError(t, err)

	f, err := regress(p, 100)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 2}, f.Mean().RawVector().Data, 1e-4)
	require.Len(t, f.Hs, 4)
	assert.Equal(t, []float64{1, 3}, f.Hs[3])

	out, _, err := run(t, "regress", "-f", path, "--prior-var", "100")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "energy="))
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestRegressNeedsNoise(t *testing.T) {
	path := writeProblem(t, strings.Replace(linearProblem, "noise: 0.000001", "noise: 0", 1))
	_, _, err := run(t, "regress", "-f", path)
	assert.ErrorContains(t, err, "positive noise")
}
