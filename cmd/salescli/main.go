package main

import (
	"os"

	"github.com/asifiqbal2018/sales-analytics-system/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
