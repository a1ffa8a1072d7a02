package main

import (
	"flag"
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"

	"github.com/Sonar-Arts/Stonebreak-sub003/internal/config"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/game"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/input"
	"github.com/Sonar-Arts/Stonebreak-sub003/internal/save"
)

func init() {
	// GLFW and the GL context are bound to the main OS thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "stonebreak.yaml", "path to config file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}
	config.Apply(settings)

	if err := glfw.Init(); err != nil {
		log.Fatalf("[main] glfw init: %v", err)
	}
	defer glfw.Terminate()

	window, err := setupWindow(settings)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	store, err := save.Open(settings.SavePath)
	if err != nil {
		log.Fatalf("[main] open save store: %v", err)
	}
	saves := save.NewService(store, settings.AutoSaveInterval())

	im := input.NewManager(window)
	app := game.NewApp(window, im, saves)

	// flush saves even on SIGINT/SIGTERM
	closer.Bind(func() {
		app.Shutdown()
		if err := saves.Close(); err != nil {
			log.Printf("[main] close save service: %v", err)
		}
	})

	if err := app.Run(); err != nil {
		log.Printf("[main] fatal: %v", err)
	}
	closer.Close()
}
