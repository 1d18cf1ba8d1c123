package main

import (
	"github.com/SundayYogurt/document_service/config"
	"github.com/SundayYogurt/document_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
