// Package common holds constants shared between the autoattend daemon and
// its command-line client.
package common

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "AUTOATTEND_CONFIG_DIR"

	// ConfigFileEnv overrides the path of the configuration file.
	ConfigFileEnv = "AUTOATTEND_CONFIG"

	// TelegramTokenEnv supplies the notification bot token, taking precedence
	// over the keyring.
	TelegramTokenEnv = "AUTOATTEND_TELEGRAM_TOKEN"

	// TelegramChatEnv overrides the notification chat id.
	TelegramChatEnv = "AUTOATTEND_TELEGRAM_CHAT_ID"

	// RPCSecretEnv enables the status RPC endpoint with the given bearer token.
	RPCSecretEnv = "AUTOATTEND_RPC_SECRET"

	// RestartCountEnv carries the crash restart counter into a relaunched process.
	RestartCountEnv = "AUTOATTEND_RESTART_COUNT"

	// DebugEnv enables debug logging.
	DebugEnv = "AUTOATTEND_DEBUG"
)

// Default file names inside the configuration directory.
const (
	ConfigFileName  = "config.yaml"
	LogFileName     = "autoattend.log"
	JournalFileName = "journal.db"
	PidFileName     = "daemon.pid"
)

// DefaultRPCListen is the loopback address the status RPC binds to.
const DefaultRPCListen = "127.0.0.1:7311"
