package main

import (
	"os"

	"muse-ai/backend/internal/app"
)

// @title           Muse AI Chat API
// @version         1.0
// @description     Streamed AI chat backend for the Muse platform.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	os.Exit(app.Run())
}
