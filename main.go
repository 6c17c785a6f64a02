package main

import "github.com/jackchuka/gitactivity/cmd"

func main() {
	cmd.Execute()
}
