package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"userpanel/config"
	"userpanel/database"
	"userpanel/database/model"
	"userpanel/logger"
	"userpanel/web"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := database.CloseDB(); err != nil {
			logger.Warning("close db err:", err)
		}
		logger.CloseLogger()
	}()

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

// promoteUser grants the admin role to an existing account, the only way
// a user becomes an admin.
func promoteUser(email string) {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}

	db := database.GetDB()
	result := db.Model(model.User{}).
		Where("email = ?", email).
		Update("role", model.RoleAdmin)
	if result.Error != nil {
		fmt.Println("promote user failed:", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		fmt.Println("no account with email", email)
		return
	}
	fmt.Println(email, "is now an admin")
}

func main() {
	// Missing .env is fine; the environment may be set by other means.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "userpanel",
		Short: "Multi-user account panel",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var promoteEmail string
	promoteCmd := &cobra.Command{
		Use:   "promote",
		Short: "Grant the admin role to an account",
		Run: func(cmd *cobra.Command, args []string) {
			promoteUser(promoteEmail)
		},
	}
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "email of the account to promote")
	promoteCmd.MarkFlagRequired("email")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetVersion())
		},
	}

	rootCmd.AddCommand(promoteCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
