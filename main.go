package main

import "leavereason/cmd"

func main() {
	cmd.Execute()
}
