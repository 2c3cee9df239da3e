// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyst/internal/llm"
	"github.com/pdiddy/paper-analyst/internal/prompts"
)

var explainCmd = &cobra.Command{
	Use:   "explain <concept...>",
	Short: "Build (and optionally answer) a concept explanation prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExplain,
}

var summarizePromptCmd = &cobra.Command{
	Use:   "summarize-prompt",
	Short: "Build a paper summary prompt from a context-selected template",
	Long: `Summarize-prompt picks a static summary template from --context
(statistical, hardware or architecture focus) and prints the prompt for the
paper text read from --text-file, or stdin when no file is given.

If --template disagrees with the recommended template, every template is
sampled and a warning is appended.`,
	RunE: runSummarizePrompt,
}

func init() {
	explainCmd.Flags().String("level", prompts.LevelMedium, "detail level: simple, medium, advanced")
	explainCmd.Flags().Bool("generate", false, "send the prompt to the LLM and print the answer")

	summarizePromptCmd.Flags().String("context", "", "what the reader cares about")
	summarizePromptCmd.Flags().String("template", "", "template key (default: recommended from context)")
	summarizePromptCmd.Flags().String("text-file", "", "file holding the paper text (default: stdin)")

	rootCmd.AddCommand(explainCmd)
	rootCmd.AddCommand(summarizePromptCmd)
}

func runExplain(cmd *cobra.Command, args []string) error {
	level, _ := cmd.Flags().GetString("level")
	prompt := prompts.ExplainConcept(strings.Join(args, " "), level)

	generate, _ := cmd.Flags().GetBool("generate")
	if !generate {
		fmt.Println(prompt)
		return nil
	}

	cfg, err := appConfig(cmd)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cmd.Context(), cmd, cfg)
	if err != nil {
		return err
	}
	res := llm.Call(cmd.Context(), gen, prompt, cfg.LLM.Timeout).Labeled("explain")
	if !res.OK() {
		return res.Err
	}
	fmt.Println(res.Value)
	return nil
}

func runSummarizePrompt(cmd *cobra.Command, args []string) error {
	context, _ := cmd.Flags().GetString("context")
	key, _ := cmd.Flags().GetString("template")
	textFile, _ := cmd.Flags().GetString("text-file")

	var (
		data []byte
		err  error
	)
	if textFile == "" || textFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(textFile)
	}
	if err != nil {
		return fmt.Errorf("reading paper text: %w", err)
	}

	fmt.Println(prompts.SummarizePaper(string(data), context, key))
	return nil
}
