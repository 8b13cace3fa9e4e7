// Package config loads the JSON configuration file and hands each package its
// own section. Packages keep their own Config struct with default values;
// this package only stores the raw sections and decodes on request.
package config

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
)

// rawSections holds the top-level JSON objects keyed by section name,
// e.g. "echo-middleware", "email", "timesheet".
var rawSections = map[string]json.RawMessage{}

/*
InitializeConfig reads the JSON config file at configPath and stores its
top-level sections for later decoding via DecodeSection.

A missing file is not fatal: every package keeps working on its default
config values. A present but malformed file is fatal.
*/
func InitializeConfig(configPath string) {
	fileBytes, readErr := os.ReadFile(configPath)
	if readErr != nil {
		tl.Log(
			tl.Warning, palette.YellowBold, "Config file '%s' is %s, using %s",
			configPath, "not readable", "default values for all packages",
		)
		return
	}

	unmarshalErr := json.Unmarshal(fileBytes, &rawSections)
	xerr.QuitIfError(unmarshalErr, "Unable to parse config file as JSON object")

	tl.Log(
		tl.Info, palette.Green, "Loaded config file '%s' with '%d' sections",
		configPath, len(rawSections),
	)
}

/*
DecodeSection decodes the named section into out (a pointer to the package's
Config struct) and reports whether the section was present.

Absent sections are fine; the caller passes nil to its InitializeConfig and
keeps defaults. A present but malformed section is fatal: a half-applied
config is worse than no config.
*/
func DecodeSection(sectionName string, out any) (present bool) {
	raw, exists := rawSections[sectionName]
	if !exists {
		return false
	}

	unmarshalErr := json.Unmarshal(raw, out)
	xerr.QuitIfError(unmarshalErr, "Unable to decode config section '"+sectionName+"'")

	return true
}

/*
CheckIfEnvVarsPresent warns about every missing/empty env var in names.

It never exits: provider credentials are only needed once an email actually
goes out, and the dry-run path works without any of them.
*/
func CheckIfEnvVarsPresent(names ...string) {
	for _, name := range names {
		value := strings.TrimSpace(os.Getenv(name))
		if value == "" {
			tl.Log(
				tl.Warning, palette.YellowBold, "Environment variable '%s' is %s",
				name, "not set",
			)
		}
	}
}

/*
GetPackageName returns the package name of the caller, for log lines like
"<pkg> configuration". Falls back to "unknown" if the frame is unavailable.
*/
func GetPackageName() string {
	pc, _, _, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	fullName := runtime.FuncForPC(pc).Name() // e.g. timesheet-summary/src/pkg/echomw.InitializeConfig
	lastSlash := strings.LastIndex(fullName, "/")
	tail := fullName[lastSlash+1:]

	dot := strings.Index(tail, ".")
	if dot < 0 {
		return tail
	}
	return tail[:dot]
}
