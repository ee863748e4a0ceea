package main

import (
	"os"

	"github.com/JakeFAU/birdseye/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
