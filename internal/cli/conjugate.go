package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/silky/ml-tools/normal"
)

var errVariance = errors.New("variances must be positive")

func conjugateCmd() *cobra.Command {
	var priorMean, priorVar float64
	var likMean, likVar float64

	c := &cobra.Command{
		Use:   "conjugate",
		Short: "Combine a univariate Gaussian prior with a Gaussian likelihood",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if priorVar <= 0 || likVar <= 0 {
				return errVariance
			}
			mean, variance := normal.ConjugateUpdateUnivariate(priorMean, priorVar, likMean, likVar)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "mean=%g variance=%g\n", mean, variance)
			return err
		},
	}

	c.Flags().Float64Var(&priorMean, "prior-mean", 0, "Prior mean")
	c.Flags().Float64Var(&priorVar, "prior-var", 1, "Prior variance")
	c.Flags().Float64Var(&likMean, "lik-mean", 0, "Likelihood mean")
	c.Flags().Float64Var(&likVar, "lik-var", 1, "Likelihood variance")
	return c
}
