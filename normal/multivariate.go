// Package normal implements products, quotients and summaries of Gaussian
// distributions, along with the closed-form conditioning and conjugate
// updates used by Gaussian-process and Kalman-style models.
package normal

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/silky/ml-tools/linalg"
)

var ErrShape = errors.New("normal: dimension mismatch")

// SummaryQuantiles are the probability levels reported by Summarise.
var SummaryQuantiles = []float64{0.025, 0.25, 0.5, 0.75, 0.975}

// MultivariateNormal is a Gaussian in mean/precision form.
type MultivariateNormal struct {
	Mean      *mat.VecDense
	Precision *mat.SymDense
}

func NewMultivariateNormal(mean mat.Vector, precision mat.Symmetric) *MultivariateNormal {
	if precision.SymmetricDim() != mean.Len() {
		panic(ErrShape)
	}
	m := mat.VecDenseCopyOf(mean)
	p := mat.NewSymDense(mean.Len(), nil)
	p.CopySym(precision)
	return &MultivariateNormal{
		Mean:      m,
		Precision: p,
	}
}

func (d *MultivariateNormal) check(mean mat.Vector, precision mat.Symmetric) {
	n := d.Mean.Len()
	if mean.Len() != n || precision.SymmetricDim() != n {
		panic(ErrShape)
	}
}

// solvePrecision solves p x = b, through a Cholesky factorization when p is
// positive definite and through LU otherwise.
func solvePrecision(p mat.Symmetric, b mat.Vector) (*mat.VecDense, error) {
	var x mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(p) {
		if err := chol.SolveVecTo(&x, b); err == nil {
			return &x, nil
		}
	}
	if err := x.SolveVec(p, b); err != nil {
		return nil, fmt.Errorf("%w: %v", linalg.ErrSingular, err)
	}
	return &x, nil
}

// combine returns the Gaussian with precision p1 + sign·p2 and mean
// (p1 + sign·p2)⁻¹ (p1 m1 + sign·p2 m2).
func (d *MultivariateNormal) combine(mean mat.Vector, precision mat.Symmetric, sign float64) (
	*MultivariateNormal, error) {
	d.check(mean, precision)
	n := d.Mean.Len()

	p := mat.NewSymDense(n, nil)
	p.CopySym(d.Precision)
	scaled := mat.NewSymDense(n, nil)
	scaled.ScaleSym(sign, precision)
	p.AddSym(p, scaled)

	var rhs, pt2 mat.VecDense
	rhs.MulVec(d.Precision, d.Mean)
	pt2.MulVec(precision, mean)
	rhs.AddScaledVec(&rhs, sign, &pt2)

	m, err := solvePrecision(p, &rhs)
	if err != nil {
		return nil, err
	}
	return &MultivariateNormal{Mean: m, Precision: p}, nil
}

// Multiply returns the (renormalized) product of d with N(mean, precision⁻¹).
func (d *MultivariateNormal) Multiply(mean mat.Vector, precision mat.Symmetric) (*MultivariateNormal, error) {
	return d.combine(mean, precision, 1)
}

// Divide returns the (renormalized) quotient of d by N(mean, precision⁻¹).
func (d *MultivariateNormal) Divide(mean mat.Vector, precision mat.Symmetric) (*MultivariateNormal, error) {
	return d.combine(mean, precision, -1)
}

// WeightedSum returns the mean and variance of wᵀθ for θ ~ d.
func (d *MultivariateNormal) WeightedSum(weights []float64) (mean, variance float64, err error) {
	if len(weights) != d.Mean.Len() {
		panic(ErrShape)
	}
	w := mat.NewVecDense(len(weights), weights)
	mean = mat.Dot(d.Mean, w)
	// wᵀ Σ w = wᵀ P⁻¹ w
	sw, err := solvePrecision(d.Precision, w)
	if err != nil {
		return mean, math.NaN(), err
	}
	return mean, mat.Dot(w, sw), nil
}

// Covariance inverts the precision matrix.
func (d *MultivariateNormal) Covariance() (*mat.SymDense, error) {
	cov, err := linalg.CholeskyInverse(d.Precision)
	if err == nil {
		return cov, nil
	}
	inv, err := linalg.LUInverse(d.Precision)
	if err != nil {
		return nil, err
	}
	return linalg.Symmetrize(inv), nil
}

// MarginalVariances returns the diagonal of the covariance matrix.
func (d *MultivariateNormal) MarginalVariances() ([]float64, error) {
	cov, err := d.Covariance()
	if err != nil {
		return nil, err
	}
	out := make([]float64, cov.SymmetricDim())
	for i := range out {
		out[i] = cov.At(i, i)
	}
	return out, nil
}

// Summary describes the marginal distribution of one variable.
type Summary struct {
	Mean      float64
	SD        float64
	Quantiles []float64 // At SummaryQuantiles.
}

// Summarise returns the marginal quantiles of every variable.
func (d *MultivariateNormal) Summarise() ([]Summary, error) {
	vars, err := d.MarginalVariances()
	if err != nil {
		return nil, err
	}
	out := make([]Summary, len(vars))
	for i, v := range vars {
		out[i] = NewSummary(d.Mean.AtVec(i), math.Sqrt(v))
	}
	return out, nil
}

// NewSummary describes N(mean, sd²) at SummaryQuantiles.
func NewSummary(mean, sd float64) Summary {
	dist := distuv.Normal{Mu: mean, Sigma: sd}
	qs := make([]float64, len(SummaryQuantiles))
	for i, p := range SummaryQuantiles {
		qs[i] = dist.Quantile(p)
	}
	return Summary{Mean: mean, SD: sd, Quantiles: qs}
}

// WriteSummaries renders summaries as an aligned table, one row per
// variable: mean, standard deviation and one column per quantile (in
// percent).
func WriteSummaries(w io.Writer, summaries []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprint(tw, "\tmean\tsd\t")
	for _, p := range SummaryQuantiles {
		fmt.Fprintf(tw, "%s\t", strconv.FormatFloat(math.Round(p*1e4)/100, 'f', 1, 64))
	}
	fmt.Fprintln(tw)
	for i, s := range summaries {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t", i, s.Mean, s.SD)
		for _, q := range s.Quantiles {
			fmt.Fprintf(tw, "%.4f\t", q)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func (d *MultivariateNormal) String() string {
	return fmt.Sprintf("Normal distribution with mean %v and precision %v.",
		mat.Formatted(d.Mean.T(), mat.Squeeze()), mat.Formatted(d.Precision, mat.Squeeze()))
}
