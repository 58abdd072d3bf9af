package config

import (
	"fmt"
	"strings"

	"github.com/tdex-network/pubport/pkg/hdkey"
	"github.com/tdex-network/pubport/pkg/scripttype"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey is the logging level. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey restricts imported keys to the given network: mainnet or
	// testnet. Empty accepts both.
	NetworkKey = "NETWORK"
	// ScriptTypeKey is the script type used for keys that do not carry one,
	// like bare xpubs.
	ScriptTypeKey = "SCRIPT_TYPE"
	// OutputKey is the output format of the CLI: text or json
	OutputKey = "OUTPUT"
	// AddressCountKey is the number of addresses derived by default
	AddressCountKey = "ADDRESS_COUNT"

	OutputText = "text"
	OutputJSON = "json"

	MaxAddressCount = 10000
)

var vip *viper.Viper

// InitConfig loads the configuration from PUBPORT_ prefixed environment
// variables and validates it.
func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("PUBPORT")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, int(log.InfoLevel))
	vip.SetDefault(NetworkKey, "")
	vip.SetDefault(ScriptTypeKey, "")
	vip.SetDefault(OutputKey, OutputText)
	vip.SetDefault(AddressCountKey, 10)

	if err := Validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}
	return nil
}

// Set overrides key, taking precedence over environment and defaults.
func Set(key string, value interface{}) {
	vip.Set(key, value)
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetLogLevel() log.Level {
	return log.Level(GetInt(LogLevelKey))
}

// GetNetwork returns the configured network, if any.
func GetNetwork() (hdkey.Network, bool) {
	name := GetString(NetworkKey)
	if name == "" {
		return 0, false
	}
	net, err := hdkey.ParseNetwork(name)
	if err != nil {
		return 0, false
	}
	return net, true
}

// GetScriptType returns the configured script type, or scripttype.Unknown.
func GetScriptType() scripttype.ScriptType {
	st, _ := scripttype.ParseName(GetString(ScriptTypeKey))
	return st
}

func Validate() error {
	level := GetInt(LogLevelKey)
	if level < int(log.PanicLevel) || level > int(log.TraceLevel) {
		return fmt.Errorf(
			"%s must be in range [%d, %d]",
			LogLevelKey, log.PanicLevel, log.TraceLevel,
		)
	}

	if network := GetString(NetworkKey); network != "" {
		if _, err := hdkey.ParseNetwork(network); err != nil {
			return err
		}
	}

	if name := GetString(ScriptTypeKey); name != "" {
		if _, ok := scripttype.ParseName(name); !ok {
			return fmt.Errorf("unknown script type %s", name)
		}
	}

	switch output := strings.ToLower(GetString(OutputKey)); output {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("%s must be either %s or %s", OutputKey, OutputText, OutputJSON)
	}

	count := GetInt(AddressCountKey)
	if count <= 0 || count > MaxAddressCount {
		return fmt.Errorf("%s must be in range [1, %d]", AddressCountKey, MaxAddressCount)
	}

	return nil
}
