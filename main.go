package main

import "paperchain/cmd"

func main() {
	cmd.Execute()
}
