package main

import "github.com/alfredlabs/missionctl/internal/cli"

func main() {
	cli.Execute()
}
