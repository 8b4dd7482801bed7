package main

import "github.com/Daihongyi/surf/cmd"

func main() {
	cmd.Execute()
}
