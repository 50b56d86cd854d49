package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/ollender/ollender/internal/google"
)

func newAuthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authenticate with Google and store an API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := google.OAuthConfig(
				os.Getenv("GOOGLE_CLIENT_ID"),
				os.Getenv("GOOGLE_CLIENT_SECRET"),
				app.Config.CredentialsFile,
			)
			if err != nil {
				return err
			}

			authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n\n", authURL)

			fmt.Print("Authorization code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.ExchangeAuthCode(context.Background(), config, authCode)
			if err != nil {
				return err
			}

			if err := google.SaveToken(app.Config.TokenFile, token); err != nil {
				return err
			}

			fmt.Printf("Token saved to %s\n", app.Config.TokenFile)
			return nil
		},
	}
}
