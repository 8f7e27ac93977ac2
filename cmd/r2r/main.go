package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"r2r/internal/app"
	"r2r/internal/doctype"
	"r2r/internal/r2rconfig"
)

type ExitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }
func (e *exitError) ExitCode() int { return e.code }

// Exit codes beyond the generic 1.
const (
	exitInvalid  = 2
	exitNotFound = 3
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ex ExitCoder
	if errors.As(err, &ex) {
		return ex.ExitCode()
	}
	var (
		missingSection *r2rconfig.MissingSectionError
		missingKey     *r2rconfig.MissingKeyError
		sectionType    *r2rconfig.SectionTypeError
		malformed      *r2rconfig.MalformedJSONError
		unknown        *doctype.UnknownTypeError
		notFound       *r2rconfig.KeyNotFoundError
	)
	switch {
	case errors.As(err, &notFound):
		return exitNotFound
	case errors.As(err, &missingSection), errors.As(err, &missingKey), errors.As(err, &sectionType),
		errors.As(err, &malformed), errors.As(err, &unknown):
		return exitInvalid
	}
	return 1
}

type serviceFactory func(ctx context.Context) (*app.Service, error)

func newRootCmd() *cobra.Command {
	var settingsPath string
	var jsonOutput bool

	newSvc := func(ctx context.Context) (*app.Service, error) {
		return app.New(ctx, app.Options{SettingsPath: settingsPath})
	}

	cmd := &cobra.Command{
		Use:           "r2r",
		Short:         "Validate, inspect and distribute R2R configuration documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to settings file (default ~/.r2r/settings.toml)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")

	cmd.AddCommand(newConfigCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newSchemaCmd())
	cmd.AddCommand(newDoctypesCmd(&jsonOutput))
	cmd.AddCommand(newDoctorCmd(newSvc, &jsonOutput))
	cmd.AddCommand(newVersionCmd(&jsonOutput))
	return cmd
}

// withService runs fn against a fresh service and closes it afterwards.
func withService(cmd *cobra.Command, newSvc serviceFactory, fn func(*app.Service) error) error {
	svc, err := newSvc(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}

func newConfigCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	configCmd := &cobra.Command{Use: "config", Aliases: []string{"cfg"}, Short: "Work with R2R configuration documents"}
	configCmd.AddCommand(
		newValidateCmd(newSvc, jsonOutput),
		newLintCmd(newSvc, jsonOutput),
		newShowCmd(newSvc),
		newPushCmd(newSvc, jsonOutput),
		newPullCmd(newSvc, jsonOutput),
		newWatchCmd(newSvc, jsonOutput),
	)
	return configCmd
}

func newValidateCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "validate <path>",
		Aliases: []string{"verify", "check"},
		Short:   "Check a document has every required section and key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				cfg, err := svc.Validate(args[0])
				if err != nil {
					return err
				}
				payload := map[string]any{
					"valid":           true,
					"path":            args[0],
					"excludedParsers": cfg.Ingestion.ExcludedParsers,
				}
				return print(cmd.OutOrStdout(), *jsonOutput, payload, "validation passed")
			})
		},
	}
}

func newLintCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "lint <path>",
		Short: "Report every structural problem in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				issues, err := svc.Lint(args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if *jsonOutput {
					if err := print(out, true, map[string]any{"path": args[0], "issues": issues}, ""); err != nil {
						return err
					}
				} else if len(issues) == 0 {
					fmt.Fprintln(out, "no issues")
				} else {
					for _, issue := range issues {
						fmt.Fprintf(out, "- %s\n", issue)
					}
				}
				if len(issues) > 0 {
					return &exitError{code: exitInvalid, msg: fmt.Sprintf("CFG_LINT: %d issue(s) in %s", len(issues), args[0])}
				}
				return nil
			})
		},
	}
}

func newShowCmd(newSvc serviceFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "show <path>",
		Short: "Print a document with defaults filled in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				blob, err := svc.Show(args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(blob))
				return err
			})
		},
	}
}

func newPushCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "push <path> <key>",
		Aliases: []string{"save", "upload"},
		Short:   "Validate a document and store it under a key",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				if _, err := svc.Push(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				payload := map[string]string{"pushed": args[1], "source": args[0], "backend": svc.Settings.Store.Backend}
				return print(cmd.OutOrStdout(), *jsonOutput, payload, fmt.Sprintf("pushed %s to key %s", args[0], args[1]))
			})
		},
	}
}

func newPullCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:     "pull <key>",
		Aliases: []string{"load", "download"},
		Short:   "Load the document stored under a key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				if out != "" {
					if err := svc.Export(cmd.Context(), args[0], out); err != nil {
						return err
					}
					return print(cmd.OutOrStdout(), *jsonOutput, map[string]string{"pulled": args[0], "target": out},
						fmt.Sprintf("wrote key %s to %s", args[0], out))
				}
				cfg, err := svc.Pull(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				blob, err := r2rconfig.MarshalIndent(cfg)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(blob))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the document to this file instead of stdout")
	return cmd
}

func newWatchCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Revalidate a document every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withService(cmd, newSvc, func(svc *app.Service) error {
				out := cmd.OutOrStdout()
				notify := func(event string, err error) {
					payload, msg := watchEvent(args[0], event, err)
					_ = print(out, *jsonOutput, payload, msg)
				}
				_, done, err := svc.Watch(ctx, args[0], func(_ *r2rconfig.Config, err error) {
					notify("reloaded", err)
				})
				if err != nil {
					return err
				}
				notify("watching", nil)
				return <-done
			})
		},
	}
}

// watchEvent builds the payload and message for one watch notification.
func watchEvent(path, event string, err error) (map[string]any, string) {
	payload := map[string]any{"path": path, "event": event, "valid": err == nil}
	if err != nil {
		payload["error"] = err.Error()
		return payload, "invalid: " + err.Error()
	}
	return payload, event + " " + path
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a configuration document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return print(cmd.OutOrStdout(), true, r2rconfig.JSONSchema(r2rconfig.DefaultSchema), "")
		},
	}
}

func newDoctypesCmd(jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:     "doctypes",
		Aliases: []string{"types"},
		Short:   "List the document types parsers can be excluded for",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := make([]string, 0, len(doctype.All()))
			for _, t := range doctype.All() {
				names = append(names, t.String())
			}
			if *jsonOutput {
				return print(cmd.OutOrStdout(), true, names, "")
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}

func newDoctorCmd(newSvc serviceFactory, jsonOutput *bool) *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:     "doctor",
		Aliases: []string{"diag", "checkup"},
		Short:   "Run diagnostics",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, newSvc, func(svc *app.Service) error {
				report := svc.Doctor(cmd.Context(), configPath)
				out := cmd.OutOrStdout()
				if *jsonOutput {
					if err := print(out, true, report, ""); err != nil {
						return err
					}
				} else if len(report.Findings) == 0 {
					fmt.Fprintln(out, "healthy")
				} else {
					if report.Healthy {
						fmt.Fprintln(out, "healthy with warnings:")
					} else {
						fmt.Fprintln(out, "issues found:")
					}
					for _, f := range report.Findings {
						fmt.Fprintf(out, "- [%s] %s\n", f.Code, f.Message)
					}
				}
				if !report.Healthy {
					return &exitError{code: 1, msg: "DOC_UNHEALTHY: doctor found errors"}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "also check this configuration document")
	return cmd
}

func print(w io.Writer, jsonOutput bool, payload any, message string) error {
	if jsonOutput {
		blob, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(blob))
		return err
	}
	if message != "" {
		_, err := fmt.Fprintln(w, message)
		return err
	}
	return nil
}
