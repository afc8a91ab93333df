package main

import "github.com/lumenfold/lumenfold/internal/cmd"

func main() {
	cmd.Execute()
}
