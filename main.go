package main

import (
	"os"

	"github.com/abhisek/trivia/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
