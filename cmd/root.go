package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	cartCmd "github.com/Alturino/bakery/cart/cmd"
	"github.com/Alturino/bakery/internal/config"
	"github.com/Alturino/bakery/internal/constants"
	"github.com/Alturino/bakery/internal/log"
	notificationCmd "github.com/Alturino/bakery/notification/cmd"
	orderCmd "github.com/Alturino/bakery/order/cmd"
	productCmd "github.com/Alturino/bakery/product/cmd"
)

func Start() {
	logger := log.Get("/var/log/bakery.log", config.Application{Env: os.Getenv("APPLICATION_ENV")}).
		With().
		Str(constants.KEY_APP_NAME, constants.APP_MAIN_BAKERY).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: "bakery", Short: "Bakery cart, order, product and notification services"}
	commands := []*cobra.Command{
		{
			Use:   "cart",
			Short: "Run cart service",
			Run: func(cmd *cobra.Command, args []string) {
				cartCmd.RunCartService(cmd.Context())
			},
		},
		{
			Use:   "notification",
			Short: "Run notification service",
			Run: func(cmd *cobra.Command, args []string) {
				notificationCmd.RunNotificationService(cmd.Context())
			},
		},
		{
			Use:   "order",
			Short: "Run order service",
			Run: func(cmd *cobra.Command, args []string) {
				orderCmd.RunOrderService(cmd.Context())
			},
		},
		{
			Use:   "product",
			Short: "Run product service",
			Run: func(cmd *cobra.Command, args []string) {
				productCmd.RunProductService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
