package main

import (
	"fmt"
	"log"
	"os"

	"github.com/maktab-app/maktab/core"
	logsvc "github.com/maktab-app/maktab/services/logger"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	logger.Enable(!conf.Debug)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	if err := run(os.Args[1], os.Args[2:], conf, logger); err != nil {
		logger.Fatal("admin: "+os.Args[1], err)
	}
}

func printUsage() {
	fmt.Println(`Usage: admin <command> [options]

Commands:
  migrate     apply pending database migrations
  addadmin    create an admin account (prompts for a password)`)
}

func run(command string, args []string, conf *core.Config, logger core.Logger) error {
	switch command {
	case "migrate":
		return migrate(conf, logger)
	case "addadmin":
		return addAdmin(args, conf, logger)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}
