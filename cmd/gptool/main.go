package main

import "github.com/silky/ml-tools/internal/cli"

func main() {
	cli.Execute()
}
