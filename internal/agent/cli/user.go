package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ErrNotLoggedIn — нет сохранённого токена.
var ErrNotLoggedIn = errors.New("not logged in: run authctl login first")

// NewUserCmd создаёт CLI-команду чтения профиля пользователя.
// Без аргумента показывает профиль владельца сохранённого токена.
func NewUserCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "user [id]",
		Short: "Показать профиль пользователя",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds == nil || app.Creds.Token == "" {
				return ErrNotLoggedIn
			}

			id := app.Creds.UserID
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				return errors.New("user id is required")
			}

			u, err := app.Client().GetUser(id, app.Creds.Token)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "id=%s\nname=%s\nemail=%s\n", u.ID, u.Name, u.Email)
			return nil
		},
	}
}
