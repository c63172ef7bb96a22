package main

import (
	"github.com/jpl-au/devise/cmd"
)

func main() {
	cmd.Execute()
}
