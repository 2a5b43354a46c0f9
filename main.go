package main

import "github.com/oddscan/crossbook-arb/cmd"

func main() {
	cmd.Execute()
}
