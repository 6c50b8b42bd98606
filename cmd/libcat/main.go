package main

import (
	"os"

	"github.com/htol/libcat/app"
)

func main() {
	os.Exit(app.CLI(os.Args[1:]))
}
