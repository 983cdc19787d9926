package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/wolfman30/templated-mail/internal/mailer"
	"github.com/wolfman30/templated-mail/internal/render"
	"github.com/wolfman30/templated-mail/internal/templates"
	"github.com/wolfman30/templated-mail/pkg/logging"
)

var errLintFailed = errors.New("lint failed")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "templatectl",
		Short:        "Render and lint mail templates offline",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd(), newLintCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		file      string
		alias     string
		id        int
		modelPath string
		escape    string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render one template from a seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if alias == "" && id <= 0 {
				return fmt.Errorf("one of --alias or --id is required")
			}
			mode, err := render.ParseEscape(escape)
			if err != nil {
				return err
			}
			model, err := readModel(cmd.InOrStdin(), modelPath)
			if err != nil {
				return err
			}
			svc, err := loadMailer(cmd.Context(), file, mode)
			if err != nil {
				return err
			}

			var out mailer.Rendered
			if id > 0 {
				_, out, err = svc.RenderByID(cmd.Context(), id, model)
			} else {
				_, out, err = svc.RenderByAlias(cmd.Context(), alias, model)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Subject: %s\n\n", out.Subject)
			fmt.Fprintf(w, "--- html ---\n%s\n", out.HTMLBody)
			fmt.Fprintf(w, "--- text ---\n%s\n", out.TextBody)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file holding the templates")
	cmd.Flags().StringVar(&alias, "alias", "", "template alias")
	cmd.Flags().IntVar(&id, "id", 0, "template id (wins over --alias)")
	cmd.Flags().StringVarP(&modelPath, "model", "m", "", "JSON data model file, - for stdin")
	cmd.Flags().StringVar(&escape, "escape", "html", "interpolation escaping: html or none")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newLintCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Compile every template body in a seed file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := templates.LoadSeedFile(file)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			failed := 0
			for _, t := range seed {
				for _, f := range []struct{ name, body string }{
					{"subject", t.Subject},
					{"html", t.HTMLBody},
					{"text", t.TextBody},
				} {
					if _, err := render.Compile(f.body); err != nil {
						failed++
						fmt.Fprintf(w, "template %d (%s) %s: %v\n", t.ID, t.Alias, f.name, err)
					}
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d invalid bodies", errLintFailed, failed)
			}
			fmt.Fprintf(w, "%d templates ok\n", len(seed))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML seed file holding the templates")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadMailer(ctx context.Context, file string, escape render.Escape) (*mailer.Service, error) {
	seed, err := templates.LoadSeedFile(file)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(io.Discard, "error", "text")
	svc := templates.NewService(templates.NewInMemoryStore(), nil, logger)
	svc.Seed(ctx, seed)
	return mailer.NewService(svc.Resolver(), nil, nil, mailer.Options{Escape: escape}, logger), nil
}

func readModel(stdin io.Reader, path string) (render.Value, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return render.Null(), nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return render.Value{}, fmt.Errorf("read model: %w", err)
	}
	return render.ParseJSON(data)
}
