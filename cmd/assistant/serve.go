package main

import (
	"github.com/spf13/cobra"

	"github.com/abc-assistant/assistant/internal/bot"
	"github.com/abc-assistant/assistant/internal/bot/handlers"
	"github.com/abc-assistant/assistant/internal/bot/tasks"
	"github.com/abc-assistant/assistant/internal/chat"
	"github.com/abc-assistant/assistant/internal/server"
	"github.com/abc-assistant/assistant/internal/telegram"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the Telegram bot, the admin API and scheduled tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			a, err := openApp(opts, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()
			log := a.log
			log.Info("Logger initialized", "level", a.cfg.Logger.Level, "json", a.cfg.Logger.JSON)

			tr, err := a.translator(ctx)
			if err != nil {
				return err
			}
			sessions := a.sessions(tr)

			gate, err := a.gate(ctx)
			if err != nil {
				log.Error("Failed to initialize identity provider", "error", err)
				return err
			}

			srv := server.New(server.Deps{
				Logger:     log,
				Config:     a.cfg.Server,
				Store:      a.store,
				Gate:       gate,
				Translator: tr,
			})

			var listener bot.Listener
			if a.cfg.Telegram.Token != "" {
				tracker := handlers.NewMessageTracker()
				sessions.OnEvict(tracker.Forget)
				hDeps := handlers.HandlerDeps{
					Logger:   log,
					Config:   a.cfg,
					Sessions: sessions,
					Tracker:  tracker,
				}
				tg, err := telegram.NewTelegramBot(a.cfg.Telegram.Token, log, telegram.Options(log, hDeps)...)
				if err != nil {
					return err
				}
				if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
					log.Error("Failed to register Telegram handlers", "error", err)
					return err
				}
				listener = tg
			}

			probe := chat.NewHealthProbe(a.cfg.HealthURL(), nil, log)
			taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{
				Logger:   log,
				Store:    a.store,
				Config:   a.cfg,
				Health:   probe,
				Sessions: sessions,
			})
			sched, err := bot.NewScheduler(log, &a.cfg.Scheduler, taskMap)
			if err != nil {
				return err
			}

			log.Info("Starting assistant", "listen_addr", a.cfg.Server.ListenAddr, "telegram", listener != nil)
			if err := bot.NewBot(log, listener, srv, sched).Run(ctx); err != nil {
				return err
			}
			log.Info("Assistant stopped")
			return nil
		},
	}
}
