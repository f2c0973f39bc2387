package main

import "github.com/oshokin/card-gate/cmd/card-gate-status/cmd"

func main() {
	cmd.Execute()
}
