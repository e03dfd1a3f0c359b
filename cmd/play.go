package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/trivia/internal/app"
	"github.com/abhisek/trivia/internal/opentdb"
	"github.com/abhisek/trivia/internal/plain"
	"github.com/abhisek/trivia/internal/trivia"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a game, optionally with preset settings",
	Long: "Start a game. Flags preset the setup screen; with --plain the game runs\n" +
		"as a line-oriented dialogue on stdin/stdout instead of the full-screen UI.",
	RunE: func(cmd *cobra.Command, args []string) error {
		isPlain, _ := cmd.Flags().GetBool("plain")
		if !isPlain {
			return runTUI(cmd, cmd.Flags(), true)
		}

		e, err := newEnv(cmd)
		if err != nil {
			return err
		}
		defer e.close()

		settings, err := applyFlags(e.cfg.Settings(), cmd.Flags())
		if err != nil {
			return err
		}

		d := plain.New(e.controller(settings), e.source, cmd.OutOrStdout(), plain.Options{
			Metrics: e.metrics,
			Logger:  e.log,
			Timeout: e.cfg.Provider.Timeout,
		})
		return d.Run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	playCmd.Flags().Bool("plain", false, "Play on stdin/stdout without the full-screen UI")
	playCmd.Flags().String("category", "", "Category ID or name, e.g. 22 or Geography")
	playCmd.Flags().String("difficulty", "", "easy, medium or hard")
	playCmd.Flags().Int("amount", 0, "Number of questions (1-50)")
	playCmd.Flags().String("type", "", "multiple or boolean")
}

// runTUI launches the full-screen game. flags, when set, preset settings.
func runTUI(cmd *cobra.Command, flags *pflag.FlagSet, skipWelcome bool) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}
	defer e.close()

	settings := e.cfg.Settings()
	if flags != nil {
		if settings, err = applyFlags(settings, flags); err != nil {
			return err
		}
	}

	return app.Run(app.Options{
		Controller:  e.controller(settings),
		Source:      e.source,
		Metrics:     e.metrics,
		Logger:      e.log,
		Timeout:     e.cfg.Provider.Timeout,
		SkipWelcome: skipWelcome,
	})
}

// applyFlags overrides settings with any play flags that were given.
func applyFlags(s trivia.Settings, flags *pflag.FlagSet) (trivia.Settings, error) {
	if v, _ := flags.GetString("category"); v != "" {
		key, err := resolveCategory(v)
		if err != nil {
			return s, err
		}
		s = s.WithCategory(key)
	}
	if v, _ := flags.GetString("difficulty"); v != "" {
		s = s.WithDifficulty(trivia.Difficulty(strings.ToLower(v)))
	}
	if v, _ := flags.GetInt("amount"); v != 0 {
		s = s.WithAmount(v)
	}
	if v, _ := flags.GetString("type"); v != "" {
		s = s.WithType(trivia.AnswerType(strings.ToLower(v)))
	}

	check := s
	if check.Category == "" {
		// Chosen interactively later.
		check = check.WithCategory("0")
	}
	if err := check.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// resolveCategory accepts a numeric ID or a case-insensitive name from the
// Open Trivia DB category table.
func resolveCategory(v string) (string, error) {
	if _, err := strconv.Atoi(v); err == nil {
		return v, nil
	}
	for _, c := range opentdb.KnownCategories {
		if strings.EqualFold(c.Name, v) {
			return c.Key(), nil
		}
	}
	return "", fmt.Errorf("unknown category %q (run `trivia categories` to list them)", v)
}
