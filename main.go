package main

import (
	"github.com/foomo/checkpointstore/cmd"
)

func main() {
	cmd.Execute()
}
