package main

import (
	"KestrelFM/cmd"
)

func main() {
	cmd.Execute()
}
