package main

import "newsforge/cmd"

func main() {
	cmd.Execute()
}
