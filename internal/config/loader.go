package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

func LoadProblem(path string) (Problem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Problem{}, &OpError{
			Op:   "config.load_problem",
			Kind: KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLProblem
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return Problem{}, &OpError{
			Op:   "config.load_problem",
			Kind: KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapProblem(path, dto)
}
