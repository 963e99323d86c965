package main

import (
	"stem-session/src/application"
	"stem-session/src/tui"

	"github.com/apex/log"
)

func main() {
	app := application.NewApp()

	if err := tui.Run(app.Session, app.Events.Events()); err != nil {
		log.WithField("error", err.Error()).Fatal("The interactive surface exited with an error")
	}
}
