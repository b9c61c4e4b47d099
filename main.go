package main

import (
	"fmt"
	"os"

	"github.com/yourusername/s3info/cmd"
	"github.com/yourusername/s3info/logger"
	"go.uber.org/zap"
)

func main() {
	if err := cmd.Execute(); err != nil {
		l, logErr := logger.New(&logger.Config{Level: "info", Format: "console"})
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
