package main

import "github.com/pfrederiksen/usms-records/internal/cli"

func main() {
	cli.Execute()
}
