package main

import "github.com/notrick-no/iReasearch/cmd/ireasearchctl/cmd"

func main() {
	cmd.Execute()
}
