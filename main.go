package main

import "temperance/cmd"

func main() {
	cmd.Execute()
}
