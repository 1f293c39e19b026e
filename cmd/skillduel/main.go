package main

import "github.com/skillduel/skillduel/internal/cli"

func main() {
	cli.Execute()
}
