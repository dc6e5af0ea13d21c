package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/HatmanStack/canvas-demo/internal/logger"
	"github.com/HatmanStack/canvas-demo/internal/novacanvas"
	"github.com/HatmanStack/canvas-demo/internal/server"
)

func main() {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
	viper.SetDefault("novaCanvas.region", "us-east-1")
	viper.SetDefault("novaCanvas.canvasModelId", "amazon.nova-canvas-v1:0")
	viper.SetDefault("novaCanvas.liteModelId", "us.amazon.nova-lite-v1:0")
	viper.SetDefault("novaCanvas.archiveRegion", "us-west-2")
	viper.SetDefault("novaCanvas.requestTimeoutSeconds", 300)
	var canvasConfig novacanvas.ServiceConfig
	if err := viper.UnmarshalKey("novaCanvas", &canvasConfig); err != nil {
		panic(err)
	}
	viper.SetDefault("server.host", "127.0.0.1")
	viper.SetDefault("server.port", "9000")
	host := viper.GetString("server.host")
	port := viper.GetString("server.port")
	apiKey := viper.GetString("server.apiKey")
	if err := novacanvas.Start(context.Background(), canvasConfig); err != nil {
		panic(err)
	}
	logger.Infof("service is starting, host: %s, port: %s", host, port)
	server.Start(host, port, apiKey)
}
