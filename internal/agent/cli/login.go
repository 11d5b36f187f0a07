package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/config"
)

// NewLoginCmd создаёт CLI-команду для входа пользователя в систему.
//
// Команда получает access-токен и сохраняет его вместе с id пользователя
// (subject токена) в локальный конфигурационный файл.
//
// Пример использования:
//
//	authctl login --email ana@x.com
func NewLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access токен)",
		Long: `Логин пользователя.

Пример:
  authctl login --email ana@x.com
  authctl login --email ana@x.com --password p1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = ReadPassword(cmd, "Password: "); err != nil {
					return err
				}
			}

			// выполняем логин пользователя
			resp, err := app.Client().Login(email, password)
			if err != nil {
				return err
			}

			userID, err := config.UserIDFromToken(resp.Token)
			if err != nil {
				return fmt.Errorf("server returned unreadable token: %w", err)
			}

			app.Creds.Token = resp.Token
			app.Creds.UserID = userID

			// сохраняем токен в локальный конфигурационный файл
			if err := config.Save(app.CredsPath, app.Creds); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (user id %s, token saved)\n", resp.Msg, userID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if empty)")
	cmd.MarkFlagRequired("email")

	return cmd
}
