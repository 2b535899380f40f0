package main

import "github.com/logchange/logchange-go/cmd"

func main() {
	cmd.Run()
}
