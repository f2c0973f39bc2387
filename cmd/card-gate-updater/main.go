package main

import "github.com/oshokin/card-gate/cmd/card-gate-updater/cmd"

func main() {
	cmd.Execute()
}
