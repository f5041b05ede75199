package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	serverAddr = flag.String("addr", envOr("BANKIST_ADDR", "http://localhost:8080"), "Bankist server base URL.")
	tokenFlag  = flag.String("token", os.Getenv("BANKIST_TOKEN"), "Session token from `login`. Defaults to $BANKIST_TOKEN.")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}
	commander.Register(&accountsCmd{}, "operator")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func envOr(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newClientFromFlags() *client {
	return newClient(*serverAddr, *tokenFlag)
}
