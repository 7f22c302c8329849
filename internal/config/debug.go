package config

import "os"

func IsDebug() bool {
	return os.Getenv("LEXBOT_DEBUG") == "1"
}
