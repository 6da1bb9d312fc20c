package constants

import "time"

const (
	AppName            = "mealplan"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/mealplan/mealplan.db"
	Version            = "v0.3.0"

	// Environment variables
	EnvConfig = "MEALPLAN_CONFIG"
	EnvDebug  = "MEALPLAN_DEBUG"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "mealplan-"
	BackupFileSuffix = ".db"

	// Server constants
	DefaultServerAddr      = "localhost:5000"
	ServerLockfileName     = "mealplan-server.lock"
	ServerReadTimeout      = 15 * time.Second
	ServerWriteTimeout     = 60 * time.Second
	ServerShutdownTimeout  = 10 * time.Second
	MaxRequestBodyBytes    = 1 << 20
	DefaultMongoDatabase   = "mealplanner"
	MongoMealsCollection   = "meals"
	MongoSettingCollection = "settings"
	MongoConnectTimeout    = 10 * time.Second
)
