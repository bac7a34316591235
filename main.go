package main

import (
	"os"

	"github.com/mineralhub/mineralhub/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
