package main

import (
	"context"
	"os"

	"github.com/tdh8316/gitlabenum/internal/app"
)

func main() {
	os.Exit(app.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
