package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/silky/ml-tools/internal/config"
	"github.com/silky/ml-tools/internal/logger"
)

func kernelCmd() *cobra.Command {
	var file string
	var cross bool

	c := &cobra.Command{
		Use:   "kernel",
		Short: "Print the kernel matrix of the training inputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := config.LoadProblem(file)
			if err != nil {
				return err
			}

			var k *mat.Dense
			switch {
			case !cross:
				k = p.Kernel.Matrix(p.TrainX, p.TrainX)
			case p.TestX == nil:
				return fmt.Errorf("%s: no test inputs", file)
			default:
				k = p.Cross.Matrix(p.TrainX, p.TestX)
			}

			r, cols := k.Dims()
			logger.L().Debug("kernel.computed", "path", file, "rows", r, "cols", cols)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%v\n", mat.Formatted(k, mat.Squeeze()))
			return err
		},
	}

	c.Flags().StringVarP(&file, "file", "f", "", "Problem YAML file (required)")
	c.Flags().BoolVar(&cross, "test", false, "Print the cross-covariance between training and test inputs")

	_ = c.MarkFlagRequired("file")
	return c
}
