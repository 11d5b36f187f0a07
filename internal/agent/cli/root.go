// Package cli реализует командный интерфейс (CLI) клиентского приложения AuthKeeper.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access-токен) из конфигурационного файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/api"
	"github.com/IvanChernomyrdin/go-authkeeper/internal/agent/config"
)

// DefaultServerURL — адрес сервера, если не задан --server или AUTHKEEPER_SERVER.
const DefaultServerURL = "http://127.0.0.1:3000"

// App содержит состояние CLI-приложения, разделяемое между командами.
//
// В структуре хранятся параметры подключения к серверу и загруженные учётные данные.
// Экземпляр App создаётся при построении root-команды и передаётся в подкоманды.
type App struct {
	// ServerURL — базовый URL сервера AuthKeeper (например, "http://127.0.0.1:3000").
	ServerURL string
	// Insecure — не проверять TLS-сертификат сервера.
	Insecure bool

	// CredsPath — путь к файлу с сохранёнными учётными данными.
	CredsPath string
	// Creds — загруженные учётные данные из файла конфигурации.
	// Может быть nil, если загрузка не выполнялась или завершилась ошибкой.
	Creds *config.Credentials
}

// Client создаёт API-клиент для текущих настроек.
func (a *App) Client() *api.Client {
	return NewAPIClient(a.ServerURL, a.Insecure)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate используются для вывода информации о сборке (команда version).
// В PersistentPreRunE определяется путь к файлу учётных данных и загружается сохранённый токен.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	serverDefault := os.Getenv("AUTHKEEPER_SERVER")
	if serverDefault == "" {
		serverDefault = DefaultServerURL
	}

	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "AuthKeeper CLI — клиент сервиса аутентификации",
		Long: `AuthKeeper CLI.

Команды:
  register  Регистрация нового пользователя
  login     Логин (получить access токен)
  user      Профиль пользователя (по умолчанию свой)
  version   Версия и дата сборки

Примеры:

Регистрация:
  authctl register --name Ana --email ana@x.com
  (пароль будет запрошен в терминале)

Логин:
  authctl login --email ana@x.com
  (сохраняет токен в ~/.authkeeper/credentials.json)

Профиль:
  authctl user
  authctl user 65a1f0c2e4b0a1b2c3d4e5f6
`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return err
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", serverDefault, "server base URL")
	cmd.PersistentFlags().BoolVar(&app.Insecure, "insecure", false, "skip TLS certificate verification (dev only)")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "credentials", "", "path to credentials file (default ~/.authkeeper/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewUserCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
//
// При ошибке выполнения команды сообщение выводится в stderr, после чего процесс
// завершается с кодом 1 (os.Exit(1)).
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
