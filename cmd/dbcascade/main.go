// Command dbcascade checks and applies database-level delete rules of
// model schemas.
package main

import (
	"os"

	"github.com/syssam/dbcascade/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
