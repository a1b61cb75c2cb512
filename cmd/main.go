package main

import (
	"JapaneseShikhi/internal/app"
	"JapaneseShikhi/internal/config"

	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	cfg := config.MustLoad()
	app.Run(cfg)
}
