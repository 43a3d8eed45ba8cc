package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/voluzi/nodeprobe/cmd/nodeprobe/cmd"
)

func main() {
	cmd.Execute()
}
