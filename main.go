package main

import (
	"github.com/jpconher/cquant/cmd"
)

func main() {
	cmd.Execute()
}
