package main

import (
	"github.com/camomile-project/camomile-go/internal/cli"
)

func main() {
	cli.Execute()
}
