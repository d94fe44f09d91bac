package main

import (
	"os"

	"github.com/ih4temyself/cyberkit-v1/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
