package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loopbot/internal/bot"
	"loopbot/internal/handlers"
	"loopbot/internal/logger"
	"loopbot/internal/models"
	"loopbot/internal/repository"
	"loopbot/internal/repository/db"
	"loopbot/internal/server"
	"loopbot/internal/service"

	"github.com/spf13/viper"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// load config.yml first so the log level comes from it
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log.level"))

	token := viper.GetString("discord.token")
	if token == "" {
		log.Fatalw("DISCORD_BOT_TOKEN is not set")
	}

	// open DB
	sqlDB, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(sqlDB)

	discordBot, err := bot.New(bot.Config{
		Token:     token,
		ChannelID: viper.GetString("discord.channel_id"),
		GuildID:   viper.GetString("discord.guild_id"),
	}, service.NewQueryService(repos.Snapshots), log)
	if err != nil {
		log.Fatalw("failed to build discord client", "err", err)
	}

	services := service.NewService(repos, discordBot, viper.GetString("webhook.secret"), log)
	apiHandler := handlers.NewHandler(services, discordBot, log)

	// connect to the gateway
	if err := discordBot.Start(); err != nil {
		log.Fatalw("failed to connect to discord", "err", err)
	}
	recordStartup(repos, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, discordBot, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")

	// secrets come from the environment, never the file
	_ = viper.BindEnv("discord.token", "DISCORD_BOT_TOKEN")
	_ = viper.BindEnv("webhook.secret", "WEBHOOK_SECRET")

	return viper.ReadInConfig()
}

// openDB initializes the SQLite event log using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "loopbot.db")
		dbPath = "loopbot.db"
	}
	return db.InitDB(dbPath)
}

// recordStartup appends a STARTUP event; failures are logged, not fatal.
func recordStartup(repos *repository.Repository, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := repos.Events.Append(ctx, models.LoopEvent{
		Type:        service.EventStartup,
		Description: "Bot started and connected to Discord",
	})
	if err != nil {
		log.Errorw("failed to record startup event", "err", err)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "3000"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, discordBot *bot.Bot, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down...")

	if err := discordBot.Stop(); err != nil {
		log.Errorw("error closing discord session", "err", err)
	}

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
