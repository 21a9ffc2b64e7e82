package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"lastday/internal/account"
	"lastday/internal/core"
	"lastday/internal/dao"
	"lastday/internal/handler"
	"lastday/internal/inventory"
	"lastday/internal/log"
	"lastday/internal/mq"
	"lastday/pkg/config"
)

func main() {
	config.InitConfig()
	cfg := config.AppConfig
	logger := log.Setup(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	// 容器探针：lastday healthcheck
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := handler.CheckHealth(ctx, fmt.Sprintf("127.0.0.1:%d", cfg.Server.GrpcPort)); err != nil {
			log.Fatal("unhealthy", "error", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 存储层：都是可选的，没配置就只在内存里跑
	var store *dao.Store
	if cfg.Database.DSN != "" {
		dao.InitDB(cfg.Database.Driver, cfg.Database.DSN)
		store = dao.NewStore(dao.DB)
	}
	if cfg.Redis.Addr != "" {
		dao.InitRedis()
	}
	if cfg.MQ.Url != "" {
		mq.InitMQ()
		defer mq.Close()
		if store != nil {
			go func() {
				if err := mq.StartConsumer(ctx, mq.Channel, cfg.MQ.QueueName, mq.NewStoreSaver(store)); err != nil {
					log.Error("kill feed consumer stopped", "error", err)
				}
			}()
		}
	}

	roomOpts, err := roomOptions(cfg, store, logger)
	if err != nil {
		log.Fatal("game setup failed", "error", err)
	}
	core.SetRoomDefaults(roomOpts, cfg.Game.MaxRooms)
	go core.StartCleanupTask(ctx)

	go func() {
		if err := handler.StartGRPC(cfg.Server.GrpcPort); err != nil {
			log.Fatal("gRPC server failed", "error", err)
		}
	}()

	ttl, err := time.ParseDuration(cfg.JWT.ExpireDuration)
	if err != nil {
		log.Fatal("bad jwt.expire_duration", "value", cfg.JWT.ExpireDuration, "error", err)
	}
	api := &handler.API{
		Catalog:  inventory.NewCatalog(core.DefaultItems()...),
		ServerID: cfg.Server.ServerID,
	}
	if store != nil {
		var sessions account.Sessions
		if dao.RDB != nil {
			sessions = account.RedisSessions{}
		}
		api.Accounts = account.NewService(store, sessions, cfg.JWT.Secret, ttl)
		api.Kills = store
	}

	r := gin.Default()
	api.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("lastday server running", "addr", addr, "tick_rate", roomOpts.TickSpeed)
	if err := r.Run(addr); err != nil {
		log.Fatal("http server failed", "error", err)
	}
}

func roomOptions(cfg *config.Config, store *dao.Store, logger *slog.Logger) (core.RoomOptions, error) {
	opts := core.RoomOptions{
		TickSpeed: cfg.Server.TickRate,
		Seed:      cfg.Game.Seed,
		ServerID:  cfg.Server.ServerID,
		Logger:    logger,
	}
	if cfg.Game.Map != "" {
		layout, err := os.ReadFile(cfg.Game.Map)
		if err != nil {
			return opts, fmt.Errorf("read map: %w", err)
		}
		m, err := core.ParseTileMap(string(layout))
		if err != nil {
			return opts, fmt.Errorf("parse map %s: %w", cfg.Game.Map, err)
		}
		opts.Map = m
	}
	if store != nil {
		opts.Store = store
	}

	opts.World = core.Options{
		BotsActive:     cfg.Game.BotsActive,
		StrictSpectate: cfg.Game.StrictSpectate,
		BotCount:       cfg.Game.BotCount,
	}
	for _, t := range cfg.Game.Bots {
		data := core.BotData{
			Name:        t.Name,
			Skin:        t.Skin,
			Hammer:      t.Hammer,
			Gun:         t.Gun,
			Hook:        t.Hook,
			TeamDamage:  t.TeamDamage,
			AttackProba: t.AttackProba,
		}
		for _, d := range t.Drops {
			data.Drops = append(data.Drops, core.Drop{Item: d.Item, Num: d.Num})
		}
		opts.World.BotTemplates = append(opts.World.BotTemplates, data)
	}
	return opts, nil
}
