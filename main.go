package main

import "github.com/Alturino/bakery/cmd"

func main() {
	cmd.Start()
}
