package main

import (
	"github.com/agentpkg/pkgsync/pkg/cmd"
)

func main() {
	cmd.Execute()
}
