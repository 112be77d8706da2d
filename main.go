package main

import "github.com/notargets/geoinv/cmd"

func main() {
	cmd.Execute()
}
