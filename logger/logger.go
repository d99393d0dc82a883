package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log はアプリケーション全体で使うロガーです。
var Log *logrus.Logger

var initOnce sync.Once

// Init はロガーを初期化します。main から起動時に一度だけ呼び出します。
// LOG_LEVEL (既定 info) と LOG_FORMAT (json / text) を環境変数から読みます。
func Init() {
	initOnce.Do(func() {
		Log = logrus.New()

		logLevel, ok := os.LookupEnv("LOG_LEVEL")
		if !ok {
			logLevel = "info"
		}
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			level = logrus.InfoLevel
		}
		Log.SetLevel(level)

		if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
			Log.SetFormatter(&logrus.JSONFormatter{})
		} else {
			Log.SetFormatter(&logrus.TextFormatter{
				FullTimestamp: true,
			})
		}
		Log.SetOutput(os.Stdout)
	})
}

// Get は初期化済みのロガーを返します。テストなど Init が呼ばれていない場合はここで初期化します。
func Get() *logrus.Logger {
	Init()
	return Log
}

// For はコンポーネント名を付けたエントリを返します。
func For(component string) *logrus.Entry {
	return Get().WithField("component", component)
}
