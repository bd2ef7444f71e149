package main

import (
	"github.com/OFFIS-RIT/contingency/backend/internal/server"
	"github.com/OFFIS-RIT/contingency/backend/internal/util"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger"
	"github.com/OFFIS-RIT/contingency/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: util.GetEnvBool("DEBUG", false),
		JSON:  util.GetEnvString("LOG_FORMAT", "text") == "json",
	})
	logger.Init(consoleLogger)

	server.Init()
}
