package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/filesify/internal/cli"
	"github.com/dmitrijs2005/filesify/internal/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCodeUsage)
	}

	os.Exit(cli.Execute(context.Background(), cfg, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
