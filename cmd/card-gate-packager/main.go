package main

import "github.com/oshokin/card-gate/cmd/card-gate-packager/cmd"

func main() {
	cmd.Execute()
}
