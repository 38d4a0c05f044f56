package main

import "github.com/msomdec/eventsphere/internal/cli"

func main() {
	cli.Execute()
}
