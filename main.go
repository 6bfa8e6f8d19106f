package main

import "gopresence/cmd"

func main() {
	cmd.Execute()
}
