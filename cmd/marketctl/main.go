package main

import "github.com/EgehanKilicarslan/carmarket/backend-go/cmd/marketctl/commands"

func main() {
	commands.Execute()
}
