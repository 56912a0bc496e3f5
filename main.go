// The main package for the editalradar executable.
package main

import (
	"github.com/editalradar/editalradar/cmd"
)

func main() {
	cmd.Execute()
}
