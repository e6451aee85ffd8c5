package main

import "github.com/tcmc-hq/tcmc-client/internal/cli"

func main() {
	cli.Execute()
}
