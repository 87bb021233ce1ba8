package main

import (
	"github.com/kvgate/kvgate/cmd"
)

func main() {
	cmd.Execute()
}
