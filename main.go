package main

import "github/chapool/go-sendtx/cmd"

func main() {
	cmd.Execute()
}
