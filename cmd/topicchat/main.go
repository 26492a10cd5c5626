package main

import (
	"TopicChat/internal/cli"
)

func main() {
	cli.Execute()
}
