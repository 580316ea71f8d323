// Command mkctl is the operator tool: schedule previews, the points table and
// direct access to the persisted tournament state.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
