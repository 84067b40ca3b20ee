// Package main provides the CLI entrypoint for pacer.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pacer-tui/pacer/internal/config"
	"github.com/pacer-tui/pacer/internal/model"
	"github.com/pacer-tui/pacer/internal/store"
	"github.com/pacer-tui/pacer/internal/text"
	"github.com/pacer-tui/pacer/internal/tui"
)

var (
	readFixation float64
	readOpacity  float64
	readSpeed    float64
	readMaxWords int
	readMode     string
	readSaccade  int
	readDocID    int64

	addTitle string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaults := model.DefaultSettings()
	rootCmd := &cobra.Command{
		Use:           "pacer [file]",
		Short:         "TUI paced reader with fixation highlighting",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runReadCmd,
	}

	rootCmd.Flags().Float64Var(&readFixation, "fixation", defaults.Fixation, "fraction of each word to emphasize (0.2-0.8)")
	rootCmd.Flags().Float64Var(&readOpacity, "opacity", defaults.Opacity, "opacity of de-emphasized text (0.3-1.0)")
	rootCmd.Flags().Float64Var(&readSpeed, "speed", defaults.Speed, "seconds per chunk advance (0.5-10)")
	rootCmd.Flags().IntVar(&readMaxWords, "max-words", defaults.MaxWords, "maximum words per chunk (3-20)")
	rootCmd.Flags().StringVar(&readMode, "mode", string(defaults.Mode), "reading mode: chunk or paragraph")
	rootCmd.Flags().IntVar(&readSaccade, "saccade", defaults.Saccade, "gaze width (1-5), controls column width")
	rootCmd.Flags().Int64Var(&readDocID, "doc", 0, "read a document from the library by id")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newLibraryCmd())
	rootCmd.AddCommand(newRmCmd())

	return rootCmd
}

func runReadCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "fixation", &readFixation, fileCfg.Reading.Fixation)
	applyFloatConfig(cmd, "opacity", &readOpacity, fileCfg.Reading.Opacity)
	applyFloatConfig(cmd, "speed", &readSpeed, fileCfg.Reading.Speed)
	applyIntConfig(cmd, "max-words", &readMaxWords, fileCfg.Reading.MaxWords)
	applyStringConfig(cmd, "mode", &readMode, fileCfg.Reading.Mode)
	applyIntConfig(cmd, "saccade", &readSaccade, fileCfg.Reading.Saccade)

	settings := model.SanitizeSettings(model.DefaultSettings(), model.Settings{
		Fixation: readFixation,
		Opacity:  readOpacity,
		Speed:    readSpeed,
		MaxWords: readMaxWords,
		Mode:     model.ReadingMode(readMode),
		Saccade:  readSaccade,
	})

	title, raw, err := resolveText(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return fmt.Errorf("document is empty")
	}

	chunks := text.NewBuilder(settings).Build(raw)
	reader := tui.NewModel(settings, title, chunks)
	program := tea.NewProgram(reader, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveText(args []string) (title, raw string, err error) {
	if readDocID > 0 {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return "", "", fmt.Errorf("failed to open library: %w", err)
		}
		defer closeStore(st)
		doc, err := st.GetDocument(context.Background(), readDocID)
		if err != nil {
			return "", "", err
		}
		return doc.Title, doc.Body, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file: %w", err)
		}
		return filepath.Base(args[0]), string(data), nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return "", "", fmt.Errorf("no input: pass a file, pipe text, or use --doc <id>")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return "stdin", string(data), nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Import a text file into the library",
		Args:  cobra.ExactArgs(1),
		RunE:  runAddCmd,
	}
	cmd.Flags().StringVar(&addTitle, "title", "", "document title (default: file name)")
	return cmd
}

func runAddCmd(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	body := string(data)
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("document is empty")
	}
	title := addTitle
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer closeStore(st)

	id, err := st.AddDocument(context.Background(), model.Document{
		Title:   title,
		Body:    body,
		Words:   text.CountWords(body),
		AddedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %q as document %d\n", title, id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newLibraryCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "library",
		Aliases: []string{"ls"},
		Short:   "List documents in the library",
		Args:    cobra.NoArgs,
		RunE:    runLibraryCmd,
	}
}

func runLibraryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer closeStore(st)

	docs, err := st.ListDocuments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Library is empty. Import with: pacer add <file>"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		t.SetAllowedRowLength(width)
	}
	t.AppendHeader(table.Row{"ID", "Title", "Words", "Added"})
	t.AppendRows(lo.Map(docs, func(doc model.Document, _ int) table.Row {
		return table.Row{doc.ID, doc.Title, doc.Words, doc.AddedAt.Local().Format("2006-01-02 15:04")}
	}))
	t.Render()
	return nil
}

func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a document from the library",
		Args:  cobra.ExactArgs(1),
		RunE:  runRmCmd,
	}
}

func runRmCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	defer closeStore(st)

	if err := st.DeleteDocument(context.Background(), id); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %d\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		logErrf("failed to close library: %v\n", err)
	}
}

func defaultConfigTemplate() string {
	d := model.DefaultSettings()
	return fmt.Sprintf(`# pacer configuration
# Uncomment a value to enable it. CLI flags override config values.

[reading]
# fixation = %.2f        # Fraction of each word to emphasize (0.2-0.8)
# opacity = %.2f         # Opacity of de-emphasized text (0.3-1.0)
# speed = %.2f           # Seconds per chunk advance (0.5-10)
# max-words = %d         # Maximum words per chunk (3-20)
# mode = %q              # Reading mode: "chunk" or "paragraph"
# saccade = %d           # Gaze width (1-5), controls column width
`,
		d.Fixation,
		d.Opacity,
		d.Speed,
		d.MaxWords,
		string(d.Mode),
		d.Saccade,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
