package main

import "xcsign/internal/cli"

func main() {
	cli.Execute()
}
