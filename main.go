package main

import "github.com/ggwave-go/ggwave/cmd"

func main() {
	cmd.Execute()
}
