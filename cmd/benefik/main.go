package main

import "github.com/benefik-labs/benefik-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
