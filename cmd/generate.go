package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/quizgen/internal/app"
	"github.com/abhisek/quizgen/internal/quiz"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [file]",
	Short: "Generate a quiz from a text file or stdin",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		typeNames, _ := cmd.Flags().GetStringSlice("types")
		seed, _ := cmd.Flags().GetUint64("seed")
		rulesOnly, _ := cmd.Flags().GetBool("rules-only")
		asJSON, _ := cmd.Flags().GetBool("json")
		showAnswers, _ := cmd.Flags().GetBool("answers")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		req, err := buildRequest(text, difficulty, count, typeNames, cfg.Server.MinTextLength)
		if err != nil {
			return err
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		opts := app.Options{Config: cfg, RulesOnly: rulesOnly, Seed: seed, Version: version, Log: log}
		if !rulesOnly && !cfg.Store.Disabled {
			if opts.DBPath, err = resolveDBPath(cmd, cfg); err != nil {
				return fmt.Errorf("resolve database path: %w", err)
			}
		}

		a, err := app.New(cmd.Context(), opts)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.Service.Generate(cmd.Context(), req)

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		renderResult(out, res, showAnswers)
		return nil
	},
}

// readInput reads the named file, or stdin when no file or "-" is given.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func buildRequest(text, difficulty string, count int, typeNames []string, minLength int) (quiz.Request, error) {
	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n < minLength {
		return quiz.Request{}, fmt.Errorf("text must be at least %d characters, got %d", minLength, n)
	}
	if count < 1 {
		return quiz.Request{}, fmt.Errorf("--count must be at least 1")
	}

	d, err := quiz.ParseDifficulty(difficulty)
	if err != nil {
		return quiz.Request{}, err
	}

	var types []quiz.QuestionType
	for _, name := range typeNames {
		t, err := quiz.ParseQuestionType(name)
		if err != nil {
			return quiz.Request{}, err
		}
		types = append(types, t)
	}

	return quiz.Request{
		Text:              text,
		Difficulty:        d,
		NumberOfQuestions: count,
		QuestionTypes:     types,
	}, nil
}

func init() {
	generateCmd.Flags().IntP("count", "n", 10, "Number of questions to generate")
	generateCmd.Flags().StringP("difficulty", "d", "moderate", "Difficulty: easy, moderate, or challenging")
	generateCmd.Flags().StringSliceP("types", "t", nil, "Question types (multiple-choice, true-false, fill-in-blank, identification)")
	generateCmd.Flags().Uint64("seed", 0, "Seed for reproducible rule-based output")
	generateCmd.Flags().Bool("rules-only", false, "Skip the LLM and use the rule-based generator")
	generateCmd.Flags().Bool("json", false, "Print the result as JSON")
	generateCmd.Flags().Bool("answers", false, "Reveal answers in the rendered output")
}
