package main

import "github.com/nilq/oelscript/cmd"

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
