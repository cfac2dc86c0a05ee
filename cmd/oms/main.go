package main

import (
	"context"
	"log"
	"os"

	"github.com/rxtech-lab/argo-oms/internal/version"
	"github.com/urfave/cli/v3"
)

// configFlags returns fresh flag values for each command since flags carry
// parse state.
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML config `FILE`. Defaults apply when omitted",
			Sources: cli.EnvVars("OMS_CONFIG"),
		},
		&cli.StringFlag{
			Name:  "env-file",
			Usage: "Path to a .env `FILE`. ./.env is read when present and this is omitted",
		},
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "oms",
		Usage:   "Order management system",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			runCommand(),
			schemaCommand(),
			sendCommand(),
			cancelCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
