package main

import "stock-submitter/cmd"

func main() {
	cmd.Execute()
}
