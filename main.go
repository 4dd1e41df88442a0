package main

import "chatline/cmd/app"

// @title           Chatline API
// @version         1.0
// @description     One-to-one chat backend with realtime delivery.
// @BasePath        /api/v1
func main() {
	app.GetApp().LetsGo()
}
