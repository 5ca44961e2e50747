package main

import "github.com/devicelab-dev/todo-e2e/pkg/cli"

func main() {
	cli.Execute()
}
