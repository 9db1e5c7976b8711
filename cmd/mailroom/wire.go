//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/induscare/mailroom/internal/database"
	"github.com/induscare/mailroom/internal/delivery"
	"github.com/induscare/mailroom/internal/shell"
	"github.com/induscare/mailroom/internal/transport"
)

var wireSet = wire.NewSet(
	wire.Struct(new(startCommand), "*"),
	wire.Struct(new(shellCommand), "*"),
	wire.Struct(new(seedCommand), "*"),

	database.WireSet,
	transport.WireSet,
	delivery.WireSet,
	shell.WireSet,
)

func newStartCommand() (*startCommand, error) {
	panic(wire.Build(wireSet))
}

func newShellCommand() (*shellCommand, error) {
	panic(wire.Build(wireSet))
}

func newSeedCommand() (*seedCommand, error) {
	panic(wire.Build(wireSet))
}
