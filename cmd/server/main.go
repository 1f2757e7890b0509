package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "labubu-store",
		Usage: "Labubu Store storefront",
		Commands: []*cli.Command{
			serveCommand(),
			catalogCommand(),
			productCommand(),
		},
		DefaultCommand: "serve",
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("labubu-store")
	}
}
