package main

import "capframe/cmd"

func main() {
	cmd.Execute()
}
