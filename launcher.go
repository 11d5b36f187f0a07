//go:build ignore

// Локальный запуск: сервер на хранилище в памяти + сборка authctl.
//
//	go run launcher.go
package main

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"
)

func main() {
	fmt.Println("Запуск AuthKeeper...")

	clientName := "authctl"
	if runtime.GOOS == "windows" {
		clientName = "authctl.exe"
	}
	// запускаем сервер на фоне; без Mongo/Postgres под рукой берём memory
	server := exec.Command("go", "run", "./cmd/server")
	server.Env = os.Environ()
	if os.Getenv("DB_DRIVER") == "" {
		server.Env = append(server.Env, "DB_DRIVER=memory")
	}
	if os.Getenv("SECRET") == "" {
		server.Env = append(server.Env, "SECRET=dev-secret-change-me")
	}
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr

	if err := server.Start(); err != nil {
		fmt.Printf("Ошибка запуска сервера: %v\n", err)
		return
	}

	time.Sleep(3 * time.Second)
	// собираем клиента
	if _, err := os.Stat(clientName); os.IsNotExist(err) {
		fmt.Println("Сборка клиента...")
		build := exec.Command("go", "build", "-o", clientName, "./cmd/authctl")
		build.Stdout = os.Stdout
		build.Stderr = os.Stderr
		if err := build.Run(); err != nil {
			fmt.Printf("Ошибка сборки клиента: %v\n", err)
		}
	}

	fmt.Println("Сервер запущен на http://127.0.0.1:3000")
	// пишем как запускать агента
	if runtime.GOOS == "windows" {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: .\\authctl.exe register --name Ana --email ana@x.com")
	} else {
		fmt.Println("Данный терминал не закрывай. Открой новый и запускай: ./authctl register --name Ana --email ana@x.com")
	}

	server.Wait()
}
