// Command advisorctl is a terminal client for the roster advisor API.
package main

import "github.com/rosteriq/advisor-service/internal/cli"

func main() {
	cli.Execute()
}
