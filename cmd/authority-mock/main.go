package main

import "github.com/oshokin/card-gate/cmd/authority-mock/cmd"

func main() {
	cmd.Execute()
}
