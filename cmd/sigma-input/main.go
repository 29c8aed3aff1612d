package main

import "github.com/atikulmunna/sigma-input/internal/cmd"

func main() {
	cmd.Execute()
}
