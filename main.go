package main

import (
	"github.com/lottostats/backend/cmd/app"
)

func main() {
	app.Run()
}
