package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/artifact-narrator/narrator/internal/models"
	"github.com/artifact-narrator/narrator/internal/narrator"
	"github.com/artifact-narrator/narrator/internal/results"
	"github.com/artifact-narrator/narrator/internal/service"
	"github.com/artifact-narrator/narrator/internal/ui"
)

func newNarrateCmd(opts *options) *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "narrate [image]",
		Short: "Recognize an artifact photo and print its narration",
		Long: `Uploads the image to the recognition service, then sends the recognized
artifact name and era to the narration service and prints both results.

Status messages are printed as each step completes.`,
		Example: `  # Narrate a photo using the default services
  narrator narrate ./warrior.jpg

  # Use a local backend and save the run as YAML
  narrator narrate ./ding.png --base-url http://localhost:5000 --output runs/ding.yaml

  # English labels, JSON output
  narrator narrate ./ding.png --locale en --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file *models.SelectedFile
			if len(args) == 1 {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read image: %w", err)
				}
				file = &models.SelectedFile{Name: filepath.Base(args[0]), Data: data}
			}

			client := service.NewClient(opts.cfg.BaseURL, opts.cfg.Timeout)
			out := cmd.ErrOrStderr()
			orchestrator := narrator.New(client, opts.cfg.Locale, narrator.RendererFunc(func(s ui.State) {
				fmt.Fprintln(out, s.Message)
			}))

			started := time.Now()
			state, runErr := orchestrator.Submit(cmd.Context(), file)

			record := &results.RunRecord{
				ID:        uuid.NewString(),
				BaseURL:   opts.cfg.BaseURL,
				Locale:    string(opts.cfg.Locale),
				State:     state,
				Kind:      string(narrator.KindOf(runErr)),
				CreatedAt: started,
				Duration:  time.Since(started),
			}
			if file != nil {
				record.Filename = file.Name
			}
			if runErr != nil {
				record.Error = runErr.Error()
			}

			if err := results.Write(cmd.OutOrStdout(), record, format); err != nil {
				return err
			}

			if output != "" {
				if err := results.SaveYAML(record, output); err != nil {
					return err
				}
				absPath, _ := filepath.Abs(output)
				fmt.Fprintf(out, "Run saved to: %s\n", absPath)
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Save the run as a YAML file")
	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json or yaml)")

	return cmd
}
