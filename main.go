package main

import (
	"fmt"
	"os"

	"curse-modpack/cmd"
	"curse-modpack/logger"

	_ "go.uber.org/automaxprocs/maxprocs"
)

func main() {
	if _, err := logger.InitLogger(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	code := cmd.Execute()
	logger.Sync()
	os.Exit(code)
}
