package app

import "go.trai.ch/prefab/internal/core/ports"

// Components holds the wired application parts the CLI needs.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
	Tracer       ports.Tracer
}
