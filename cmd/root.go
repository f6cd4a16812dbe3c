/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/config"
	"github.com/valpere/locwalk/internal/display"
)

var version = "0.1.0"

var (
	cfgFile string
	v       = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "locwalk",
	Short: "Interactive translator for tagged localization templates",
	Long: `locwalk walks an English localization template (OmenMon style *.xml),
machine translates the text of every String element and asks you to accept,
replace, skip or quit for each one. The localized document is printed to
standard output at the end, also after quitting.

At the prompt:
  y  accept the candidate
  n  type your own translation
  s  keep the English text
  q  stop and print what has been done so far

Use --jump-to-value to resume from a String key after an earlier run.`,
	Example: `  locwalk -p Lang.xml -t uk
  locwalk -p Lang.xml -t de -j FanMax --services openai,gtranslate`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWalk,
}

// Execute runs the root command. Errors are reported with their kind and
// the process exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		display.PrintError(os.Stderr, internal.Kind(err), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.locwalk.yaml)")
	pf.String(config.KeyMemory, "", "translation memory database (sqlite); empty disables it")

	f := rootCmd.Flags()
	f.StringP(config.KeyPath, "p", "", "path to the template document (required)")
	f.StringP(config.KeyTargetLanguage, "t", "", "target language code passed to the backend")
	f.StringP(config.KeyJumpTo, "j", "", "skip String elements until the one with this Key")
	f.StringSlice(config.KeyServices, []string{"gtranslate"}, "translation services in fallback order: gtranslate, google, mymemory, systran, ollama, openai")

	f.String(config.KeyCredentials, "", "Google Cloud credentials file")
	f.String(config.KeyGoogleKey, "", "Google Cloud API key, instead of a credentials file")
	f.String(config.KeyOllamaURL, "", "Ollama base URL (default http://localhost:11434)")
	f.String(config.KeyOllamaModel, "", "Ollama model (default llama3.2)")
	f.String(config.KeyOpenAIKey, "", "API key for the OpenAI-compatible endpoint")
	f.String(config.KeyOpenAIURL, "", "base URL of the OpenAI-compatible endpoint (e.g. https://openrouter.ai/api/v1)")
	f.String(config.KeyOpenAIModel, "", "chat model for the openai service")
	f.String(config.KeySystranKey, "", "Systran RapidAPI key")
	f.String(config.KeyMyMemoryEmail, "", "email for the higher MyMemory quota")

	f.Int(config.KeyMaxRetries, 3, "attempts per service before falling back to the next one (1 disables retrying)")
	f.Duration(config.KeyRetryDelay, 0, "first retry delay, doubled per attempt (default 500ms)")
	f.Duration(config.KeyTimeout, 0, "timeout of a single translation request (default 30s)")
	f.Duration(config.KeyLLMTimeout, 0, "timeout of a single ollama or openai request (default 2m)")
	f.String(config.KeyRedisURL, "", "redis URL for the shared candidate cache (e.g. redis://localhost:6379/0)")
	f.Duration(config.KeyRedisTTL, 0, "expiry of cached candidates (default 168h)")
	f.Float64(config.KeyFuzzyThreshold, 0, "offer approved translations of similar strings (0 disables, 0.9 is strict)")
	f.Bool(config.KeyCheckLanguage, false, "warn when a candidate does not look like the target language")

	bindFlags(v, rootCmd)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	_ = v.BindPFlags(cmd.PersistentFlags())
	_ = v.BindPFlags(cmd.Flags())
}

func initConfig() {
	if err := config.ReadFile(v, cfgFile); err != nil {
		display.PrintWarn(os.Stderr, err.Error())
	}
}
