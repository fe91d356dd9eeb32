package main

import "github.com/rnwolfe/grind/cmd"

func main() {
	cmd.Execute()
}
