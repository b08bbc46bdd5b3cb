package main

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/depalign/internal"
	"github.com/rios0rios0/depalign/internal/infrastructure/controllers"
)

func injectCheckController() *controllers.CheckController {
	container := dig.New()

	if err := internal.RegisterProviders(container); err != nil {
		panic(err)
	}

	var checkController *controllers.CheckController
	if err := container.Invoke(func(cc *controllers.CheckController) {
		checkController = cc
	}); err != nil {
		panic(err)
	}

	return checkController
}
