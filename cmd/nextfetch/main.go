package main

import "github.com/bifrost2409/nextfetch/cmd/nextfetch/cmd"

func main() {
	cmd.Execute()
}
