package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/powerpointbreak/storebot/config"
	"github.com/powerpointbreak/storebot/internal/bot"
	"github.com/powerpointbreak/storebot/internal/server"
	"github.com/powerpointbreak/storebot/pkg/cache"
	"github.com/powerpointbreak/storebot/pkg/docstore"
	"github.com/powerpointbreak/storebot/pkg/logger"
	"github.com/powerpointbreak/storebot/pkg/messenger"
	"github.com/powerpointbreak/storebot/pkg/storage"
)

// storebot run — boot the core, the sweeps and the admin HTTP surface, then
// wait for shutdown. The chat transport is supplied by the embedding
// deployment: it feeds inbound updates to Bot.Dispatch and implements
// messenger.Messenger for the outbound side. Without one configured, outbound
// messages are logged, which is enough to exercise the core locally.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot core, sweeps and admin HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		logger.Setup()
		defer logger.Close()

		if err := cache.Connect(); err != nil {
			logger.Warn("session mirror disabled", "error", err)
		}
		storage.Connect()

		store, err := docstore.Open(config.DocumentPath())
		if err != nil {
			return err
		}

		b := bot.New(bot.Config{
			OperatorID:    config.OperatorID(),
			PaymentNumber: config.PaymentNumber(),
			SupportHandle: config.SupportHandle(),
		}, logMessenger{}, store)

		sweeper := b.NewSweeper(store, config.LowStockThreshold())
		if err := sweeper.Start(config.SweepSpec(), config.BackupSpec(),
			config.BackupDisk(), config.BackupDir()); err != nil {
			return err
		}
		defer sweeper.Stop()

		srv := server.New(config.HTTPAddr())
		srv.Start()

		logger.Info("storebot running", "document", config.DocumentPath())

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	},
}

// logMessenger is the fallback outbound transport: it logs instead of
// sending. Deployments replace it with a real chat-platform adapter.
type logMessenger struct{}

func (logMessenger) Send(recipient int64, c messenger.Content) error {
	logger.Info("outbound message", "recipient", recipient, "text", c.Text)
	return nil
}

func (logMessenger) Edit(ref messenger.MessageRef, c messenger.Content) error {
	logger.Info("outbound edit", "chat", ref.ChatID, "message", ref.MessageID, "text", c.Text)
	return nil
}
