package main

import "github.com/theirongolddev/budgetsync/cmd"

func main() {
	cmd.Execute()
}
