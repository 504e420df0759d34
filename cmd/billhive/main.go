package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/billhive/billhive/internal/clock"
	"github.com/billhive/billhive/internal/config"
	"github.com/billhive/billhive/internal/migration"
	"github.com/billhive/billhive/internal/server"
	"github.com/billhive/billhive/pkg/db"
	"github.com/billhive/billhive/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
