package main

import "chartlabels/internal/cli"

func main() {
	cli.Execute()
}
