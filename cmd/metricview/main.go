// cmd/metricview/main.go
package main

import (
	cmd "github.com/mwiater/metricview/internal/cli"
)

// main starts the metricview CLI by delegating to the cobra root command.
func main() {
	cmd.Execute()
}
