package config

type YAMLProblem struct {
	Kernel YAMLKernel  `yaml:"kernel"`
	Noise  float64     `yaml:"noise"`
	Train  YAMLDataset `yaml:"train"`
	Test   YAMLDataset `yaml:"test"`
}

type YAMLKernel struct {
	Type         string    `yaml:"type"`
	Alpha        *float64  `yaml:"alpha"`
	Lengthscales []float64 `yaml:"lengthscales"`
	Jitter       *float64  `yaml:"jitter"`

	// Additive kernel only.
	Base           string    `yaml:"base"`
	AdditiveAlphas []float64 `yaml:"additive_alphas"`
	KernelAlphas   []float64 `yaml:"kernel_alphas"`

	// Sum kernel only.
	Parts []YAMLKernel `yaml:"parts"`
}

type YAMLDataset struct {
	X [][]float64 `yaml:"x"`
	Y []float64   `yaml:"y"`
}
