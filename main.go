package main

import (
	"vod-service/app"
)

func main() {
	app.Run()
}
