// Command starttech-server serves the public/ directory and a sample JSON API.
//
// @title        Starttech Server API
// @version      1.0
// @description  Static asset server with a sample JSON endpoint.
// @BasePath     /
package main

//go:generate swag init --parseInternal --output docs

import (
	"fmt"
	"os"

	"github.com/allenshamrock/starttech/server/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
