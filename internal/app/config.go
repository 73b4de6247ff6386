package app

import (
	"github.com/qj0r9j0vc2/ticket-bridge/internal/infrastructure/config"
)

func (app *Application) loadConfig(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	app.config = cfg
	return nil
}
