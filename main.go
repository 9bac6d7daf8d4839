package main

import "github.com/tranvictor/faucet/cmd"

func main() {
	cmd.Execute()
}
