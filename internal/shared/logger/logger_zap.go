// Package logger содержит общий логгер для server и agent.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack), опционально дублирующий записи в stdout, и удобный метод
// для логирования HTTP-запросов.
package logger

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile — файл логов по умолчанию.
var DefaultFile = filepath.Join("runtime", "logs", "http.log")

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options — параметры логгера.
//
// Level: debug|info|warn|error (по умолчанию info).
// Format: json|console (по умолчанию console).
// File: путь к файлу логов, пустая строка — DefaultFile.
// Console: дублировать записи в stdout.
type Options struct {
	Level   string
	Format  string
	File    string
	Console bool
}

// NewHTTPLogger создаёт zap-логгер с настройками по умолчанию.
func NewHTTPLogger() *HTTPLogger {
	return New(Options{})
}

// New создаёт файловый zap-логгер.
//
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func New(opts Options) *HTTPLogger {
	logFile := opts.File
	if logFile == "" {
		logFile = DefaultFile
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0755)

	// lumberjack отвечает за ротацию файлов
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100, // MB
		MaxBackups: 10,
		MaxAge:     30, // дней
		Compress:   true,
	})

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(opts.Format, "json") {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	}

	level := ParseLevel(opts.Level)

	core := zapcore.NewCore(encoder, writer, level)
	if opts.Console {
		core = zapcore.NewTee(
			core,
			zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
		)
	}

	logger := zap.New(core, zap.AddCaller())

	return &HTTPLogger{Logger: logger}
}

// ParseLevel переводит строку из конфига в zapcore.Level.
// Неизвестные значения дают InfoLevel.
func ParseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zap.InfoLevel
	}
	return lvl
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri — параметры запроса,
// status — HTTP-статус ответа,
// responseSize — размер ответа в байтах,
// duration — длительность обработки запроса в миллисекундах.
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64) {
	logger.Info("HTTP request",
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	)
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
