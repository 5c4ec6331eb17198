package main

import "tzxtape/cmd"

func main() {
	cmd.Execute()
}
