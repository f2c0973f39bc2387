package main

import "github.com/oshokin/card-gate/cmd/card-gate-console/cmd"

func main() {
	cmd.Execute()
}
