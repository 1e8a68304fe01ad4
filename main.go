package main

import (
	"github.com/speakeasy-api/mergerepo/cmd"
	_ "go.uber.org/automaxprocs"
)

var (
	version      = "0.0.1"
	artifactArch = "linux_x86_64"
)

func main() {
	cmd.Execute(version, artifactArch)
}
