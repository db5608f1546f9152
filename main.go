package main

import "github.com/tosih/ecux-analyzer/pkg/cmd"

func main() {
	cmd.Execute()
}
