package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// NewRegisterCmd создаёт CLI-команду для регистрации нового пользователя.
//
// Обязательные флаги --name и --email. Если --password не задан,
// пароль и его подтверждение запрашиваются в терминале.
//
// Пример использования:
//
//	authctl register --name Ana --email ana@x.com
func NewRegisterCmd(app *App) *cobra.Command {
	var name, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Long: `Регистрация нового пользователя на сервере.

Пример:
  authctl register --name Ana --email ana@x.com
  authctl register --name Ana --email ana@x.com --password p1 --confirm-password p1
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = ReadPassword(cmd, "Password: "); err != nil {
					return err
				}
				if confirm, err = ReadPassword(cmd, "Confirm password: "); err != nil {
					return err
				}
			} else if confirm == "" {
				confirm = password
			}

			// выполняет добавление нового пользователя в бд
			resp, err := app.Client().Register(models.RegisterRequest{
				Name:            name,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted if empty)")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "password confirmation (defaults to --password)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}
