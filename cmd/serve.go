package cmd

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/timada-org/todo/internal/api"
	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/relay"
	"github.com/timada-org/todo/internal/todo"
	"github.com/timada-org/todo/pkg/topic"
)

// relayBuffer bounds how far a relay may lag behind the store before
// notifications are dropped.
const relayBuffer = 4096

var (
	cfgFile string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the todo server",

		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := core.NewConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			level, err := log.ParseLevel(config.Log.Level)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			log.SetLevel(level)

			return serve(cmd.Context(), config)
		},
	}
)

func init() {
	serveCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "/etc/config/todo.yml", "config file")
}

func serve(ctx context.Context, config *core.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bus := core.NewEventBus(nil)
	defer bus.Close()

	store := todo.NewWithOptions(todo.StoreOptions{Emitter: bus})

	if config.Broker.URL != "" {
		p, err := relay.NewPulsar(relay.PulsarOptions{
			URL:   config.Broker.URL,
			Topic: config.Broker.Topic,
			Name:  config.Broker.Name,
		})
		if err != nil {
			return fmt.Errorf("pulsar relay: %w", err)
		}
		defer p.Close()

		if err := startRelay(ctx, bus, p); err != nil {
			return fmt.Errorf("pulsar relay: %w", err)
		}

		log.WithFields(log.Fields{"url": config.Broker.URL, "topic": config.Broker.Topic}).Info("relaying events to pulsar")
	}

	if config.Redis.Addr != "" {
		rc := redis.NewClient(&redis.Options{Addr: config.Redis.Addr})
		defer rc.Close()

		if err := rc.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis relay: %w", err)
		}

		if err := startRelay(ctx, bus, relay.NewRedis(rc, config.Redis.Channel)); err != nil {
			return fmt.Errorf("redis relay: %w", err)
		}

		log.WithFields(log.Fields{"addr": config.Redis.Addr, "channel": config.Redis.Channel}).Info("relaying events to redis")
	}

	var auth *api.Auth
	if config.JwksURL != "" {
		a, err := api.NewAuth(config.JwksURL)
		if err != nil {
			return fmt.Errorf("jwks: %w", err)
		}
		auth = a
	}

	app := api.New(api.Options{
		Addr:  config.Addr,
		Store: store,
		Bus:   bus,
		Auth:  auth,
	})
	defer app.Close()

	return app.Listen(ctx)
}

func startRelay(ctx context.Context, bus *core.EventBus, sink relay.Sink) error {
	filter, err := topic.NewFilter("#")
	if err != nil {
		return err
	}

	subscription, err := bus.SubscribeWithBuffer(filter, relayBuffer)
	if err != nil {
		return err
	}

	go relay.Forward(ctx, subscription, sink)

	return nil
}
