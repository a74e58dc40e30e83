package main

import "teamboard-backend/internal/app"

func main() {
	app.Run()
}
