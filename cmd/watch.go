package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/timada-org/todo/internal/core"
	"github.com/timada-org/todo/internal/relay"
	"github.com/timada-org/todo/pkg/topic"
)

var (
	watchRedisAddr string
	watchChannel   string
	watchFilter    string

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Print notifications relayed to redis",

		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := topic.NewFilter(watchFilter)
			if err != nil {
				return err
			}

			rc := redis.NewClient(&redis.Options{Addr: watchRedisAddr})
			defer rc.Close()

			out := cmd.OutOrStdout()

			return relay.Watch(cmd.Context(), rc, watchChannel, func(envelope *relay.Envelope) {
				name, err := topic.NewName(envelope.Topic)
				if err != nil || !filter.Match(name) {
					return
				}

				event, err := envelope.Decode()
				if err != nil {
					log.WithError(err).WithField("seq", envelope.Seq).Warn("skipping undecodable notification")
					return
				}

				data, err := json.Marshal(event)
				if err != nil {
					return
				}

				fmt.Fprintf(out, "%d %s %s %s\n", envelope.Seq, envelope.Topic, event.Name(), data)
			})
		},
	}
)

func init() {
	watchCmd.Flags().StringVar(&watchRedisAddr, "redis", "localhost:6379", "redis address")
	watchCmd.Flags().StringVar(&watchChannel, "channel", core.DefaultRedisChannel, "redis channel")
	watchCmd.Flags().StringVarP(&watchFilter, "filter", "f", "#", "topic filter")
}
