package main

import "github.com/resumine/resumine/cmd"

func main() {
	cmd.Execute()
}
