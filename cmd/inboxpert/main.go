package main

import (
	"github.com/yaswanthpuritipati/inboXpert/cmd/cmd"
	"github.com/yaswanthpuritipati/inboXpert/internal/logger"
)

func main() {
	logger.Init()
	cmd.Execute()
}
