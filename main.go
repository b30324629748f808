package main

import "fieldservice/internal/app"

func main() {
	app.Run()
}
