package email

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"

	"timesheet-summary/src/pkg/config"
)

type Config struct {
	Provider         string `json:"provider,omitempty"`
	SenderAddress    string `json:"sender_address,omitempty"`
	DefaultRecipient string `json:"default_recipient,omitempty"`
	SendEmails       *bool  `json:"send_emails,omitempty"`
}

func DefaultValueConfig() Config {
	sendEmails := true
	return Config{
		Provider:         string(ProviderMailgun),
		SenderAddress:    "",
		DefaultRecipient: "",
		SendEmails:       &sendEmails,
	}
}

// create config with default values before config gets initialized
var Cfg Config = DefaultValueConfig() // this one we use to access config values from anywhere

/*
If local Config is provided - use it. Replace all missing values with default ones.

If not provided - just use defaultConfig.
*/
func InitializeConfig(localConfig *Config) {
	// If not provided - just use defaultConfig
	if localConfig == nil {
		tl.Log(tl.Info, palette.Purple, "%s config is %s, keeping %s", "email", "not provided", "default email config")
		return
	}

	defaultConfig := DefaultValueConfig() // Default values to replace some values with during config initialization

	// If local Config is provided - use it
	Cfg = *localConfig

	tl.ApplyDefaults(&Cfg, defaultConfig, func(field string, defVal any) {
		tl.Log(
			tl.Info, palette.Purple,
			"%s field is %s in %s configuration. Using default value: %v",
			field, "missing", config.GetPackageName(), tl.PrettyForStderr(defVal),
		)
	})

	tl.Log(tl.Info, palette.Green, "%s config was %s, using %s", "email", "provided", "local email config")
	tl.LogJSON(tl.Verbose, palette.CyanDim, fmt.Sprintf("%s configuration", config.GetPackageName()), Cfg)
}

/*
CheckProviderEnvVars warns about missing credentials for every supported
provider. Only the configured provider's vars matter at send time.
*/
func CheckProviderEnvVars() {
	config.CheckIfEnvVarsPresent(
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "AWS_REGION", // amazon ses
		"MAILGUN_DOMAIN", "MAILGUN_API_KEY", // mailgun
		"SENDGRID_API_KEY", // sendgrid
	)
}

// SenderFromConfig builds the production Sender from the package config.
func SenderFromConfig() ProviderSender {
	return ProviderSender{
		Provider:      Provider(Cfg.Provider),
		SenderAddress: Cfg.SenderAddress,
		SendEmails:    Cfg.SendEmails,
	}
}
