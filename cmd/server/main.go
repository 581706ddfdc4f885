package main

import (
	"github.com/grimoire-app/grimoire/backend/internal/server"
	"github.com/grimoire-app/grimoire/backend/internal/util"
	"github.com/grimoire-app/grimoire/backend/pkg/logger"
	"github.com/grimoire-app/grimoire/backend/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
