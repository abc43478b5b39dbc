package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/hylla/checkoff/internal/app"
	"github.com/hylla/checkoff/internal/config"
	"github.com/hylla/checkoff/internal/domain"
	"github.com/spf13/cobra"
)

func newAddCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to the top of the active list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withSession(cmd, "add", func(ctx context.Context, sess *session) error {
				task, err := sess.svc.Add(ctx, strings.Join(args, " "))
				if err != nil {
					return fmt.Errorf("add task: %w", err)
				}
				sess.mutated("add", task)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added: %s\n", task.Text)
				return nil
			})
		},
	}
}

func newListCommand(state *cliState) *cobra.Command {
	var history bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the active list, or the history with --history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.withSession(cmd, "list", func(_ context.Context, sess *session) error {
				snap := sess.svc.Snapshot()
				tasks := snap.Tasks
				if history {
					tasks = snap.History
				}
				_, err := io.WriteString(cmd.OutOrStdout(), renderTaskTable(tasks, history))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "list completed tasks")
	return cmd
}

func newDoneCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "done <n>",
		Short: "Complete the active task at position n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withSession(cmd, "done", func(ctx context.Context, sess *session) error {
				target, err := taskAt(sess.svc, args[0], false)
				if err != nil {
					return err
				}
				task, err := sess.svc.Complete(ctx, target.ID)
				if err != nil {
					return fmt.Errorf("complete task: %w", err)
				}
				sess.mutated("complete", task)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed: %s\n", task.Text)
				return nil
			})
		},
	}
}

func newReopenCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <n>",
		Short: "Move the history task at position n back to the active list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withSession(cmd, "reopen", func(ctx context.Context, sess *session) error {
				target, err := taskAt(sess.svc, args[0], true)
				if err != nil {
					return err
				}
				task, err := sess.svc.Reopen(ctx, target.ID)
				if err != nil {
					return fmt.Errorf("reopen task: %w", err)
				}
				sess.mutated("reopen", task)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reopened: %s\n", task.Text)
				return nil
			})
		},
	}
}

func newEditCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <n> <text...>",
		Short: "Replace the text of the active task at position n",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withSession(cmd, "edit", func(ctx context.Context, sess *session) error {
				target, err := taskAt(sess.svc, args[0], false)
				if err != nil {
					return err
				}
				task, err := sess.svc.EditActive(ctx, target.ID, strings.Join(args[1:], " "))
				if err != nil {
					return fmt.Errorf("edit task: %w", err)
				}
				sess.mutated("edit", task)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "updated: %s\n", task.Text)
				return nil
			})
		},
	}
}

func newRemoveCommand(state *cliState) *cobra.Command {
	var (
		history bool
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "rm <n>",
		Short: "Delete the task at position n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.withSession(cmd, "rm", func(ctx context.Context, sess *session) error {
				target, err := taskAt(sess.svc, args[0], history)
				if err != nil {
					return err
				}

				confirm := sess.cfg.Confirm.DeleteActive
				if history {
					confirm = sess.cfg.Confirm.DeleteCompleted
				}
				if confirm && !yes {
					reader := bufio.NewReader(cmd.InOrStdin())
					ok, err := promptYesNo(reader, cmd.ErrOrStderr(), fmt.Sprintf("Delete %q? [y/N]: ", target.Text), false)
					if err != nil && !errors.Is(err, io.EOF) {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
						return nil
					}
				}

				if history {
					err = sess.svc.DeleteCompleted(ctx, target.ID)
				} else {
					err = sess.svc.DeleteActive(ctx, target.ID)
				}
				if err != nil {
					return fmt.Errorf("delete task: %w", err)
				}
				sess.mutated("delete", target)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted: %s\n", target.Text)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&history, "history", false, "delete from the completed list")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newExportCommand(state *cliState) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both lists as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return state.withSession(cmd, "export", func(_ context.Context, sess *session) error {
				return runExport(sess.svc, outPath, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

func newImportCommand(state *cliState) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace both lists with a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return errors.New("--in is required")
			}
			return state.withSession(cmd, "import", func(ctx context.Context, sess *session) error {
				if err := runImport(ctx, sess.svc, inPath); err != nil {
					return err
				}
				snap := sess.svc.Snapshot()
				sess.logger.Debug("task mutation", "action", "import", "active", len(snap.Tasks), "history", len(snap.History))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported: %d active, %d completed\n", len(snap.Tasks), len(snap.History))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	return cmd
}

func newPathsCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved paths and create the config directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, configPath, dbPath, _, err := state.resolvePaths()
			if err != nil {
				return err
			}
			if err := config.EnsureConfigDir(configPath); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", state.appName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", state.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", dbPath)
			_, _ = fmt.Fprintf(out, "log_dir: %s\n", paths.LogDir)
			return nil
		},
	}
}

// runExport writes the versioned snapshot to outPath, or stdout for "-".
func runExport(svc *app.Service, outPath string, stdout io.Writer) error {
	encoded, err := json.MarshalIndent(svc.ExportSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot json: %w", err)
	}
	encoded = append(encoded, '\n')

	if outPath == "-" || strings.TrimSpace(outPath) == "" {
		if _, err := stdout.Write(encoded); err != nil {
			return fmt.Errorf("write snapshot to stdout: %w", err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create export output dir: %w", err)
	}
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}

// runImport reads a snapshot file and replaces the store contents with it.
func runImport(ctx context.Context, svc *app.Service, inPath string) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	var snap app.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return fmt.Errorf("decode snapshot json: %w", err)
	}
	if err := svc.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}

// taskAt maps a 1-based list position to the task shown there.
func taskAt(svc *app.Service, raw string, history bool) (domain.Task, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return domain.Task{}, fmt.Errorf("invalid task number %q", raw)
	}
	var task domain.Task
	if history {
		task, err = svc.CompletedAt(n - 1)
	} else {
		task, err = svc.ActiveAt(n - 1)
	}
	if err != nil {
		return domain.Task{}, fmt.Errorf("task %d: %w", n, err)
	}
	return task, nil
}

// renderTaskTable formats one list for `checkoff list`.
func renderTaskTable(tasks []domain.Task, history bool) string {
	if len(tasks) == 0 {
		if history {
			return "no completed tasks\n"
		}
		return "no tasks\n"
	}

	when := "Added"
	if history {
		when = "Completed"
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
		Headers("#", "Task", when).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				style = style.Foreground(lipgloss.Color("244")).Align(lipgloss.Right)
			}
			return style
		})
	for idx, task := range tasks {
		at := task.CreatedAt
		if history && task.CompletedAt != nil {
			at = *task.CompletedAt
		}
		t.Row(strconv.Itoa(idx+1), task.Text, formatStamp(at))
	}
	return t.String() + "\n"
}

func formatStamp(at time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return at.Local().Format("2006-01-02 15:04")
}

// promptYesNo reads a y/n answer with a configurable default.
func promptYesNo(reader *bufio.Reader, output io.Writer, prompt string, defaultYes bool) (bool, error) {
	for {
		value, err := readPromptLine(reader, output, prompt)
		if err != nil {
			return defaultYes, err
		}
		switch strings.ToLower(value) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			_, _ = fmt.Fprintln(output, "please answer y or n")
		}
	}
}

// readPromptLine renders one prompt and returns the trimmed response.
func readPromptLine(reader *bufio.Reader, output io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return "", fmt.Errorf("write prompt: %w", err)
	}
	line, err := reader.ReadString('\n')
	switch {
	case err == nil:
		return strings.TrimSpace(line), nil
	case errors.Is(err, io.EOF):
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return "", io.EOF
		}
		return trimmed, nil
	default:
		return "", fmt.Errorf("read prompt value: %w", err)
	}
}
