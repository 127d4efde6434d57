package main

import (
	"Tracker/Config"
	"Tracker/FiberConfig"
	"Tracker/Models"
	"Tracker/Progress"
)

func main() {
	settings := Config.Load()

	Models.Connect(settings)
	engine := Progress.NewEngine(Models.DB, settings.ReadingRate)

	FiberConfig.FiberConfig(engine, settings)
}
