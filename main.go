package main

import (
	"github.com/f4hrenh9it/go-testrail/cmd"
)

var version string

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
