package main

import (
	"github.com/mahaseva-integrations/trackapi/internal/cli"
)

func main() {
	cli.Execute()
}
