package main

import "github.com/oshokin/card-gate/cmd/card-gate/cmd"

func main() {
	cmd.Execute()
}
