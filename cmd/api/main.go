package main

import (
	"github.com/SundayYogurt/blog_service/config"
	"github.com/SundayYogurt/blog_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
