// Command token issues a bearer token for the bulk API, for use with the
// wizard client and local testing.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	config "github.com/maheshrc27/postflow/configs"
	"github.com/maheshrc27/postflow/pkg/utils"
	"github.com/spf13/cobra"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	if err := newTokenCmd(config.LoadConfig().SecretKey).Execute(); err != nil {
		os.Exit(1)
	}
}

func newTokenCmd(secretKey string) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:          "token <user-id>",
		Short:        "Issue a bearer token for a user",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secretKey == "" {
				return errors.New("SECRET_KEY is not set")
			}
			token, err := utils.GenerateToken(secretKey, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
