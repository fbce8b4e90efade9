package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dmitrijs2005/filesify/internal/common"
	"github.com/dmitrijs2005/filesify/internal/models"
	"github.com/spf13/cobra"
)

func newSaveCommand(deps *commandDeps) *cobra.Command {
	var (
		modelName   string
		id          string
		path        string
		content     string
		contentFile string
		comment     string
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create or update a record and write its file",
		Example: "  filesify save --model app.Config --path /tmp/example.txt --content 'Hello, World!'\n" +
			"  filesify save --model app.Secret --id <id> --content-file ./secret.env",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("save does not accept positional arguments")
			}
			if modelName == "" {
				return usageErrorf("--model is required")
			}
			if cmd.Flags().Changed("content") && contentFile != "" {
				return usageErrorf("--content and --content-file are mutually exclusive")
			}

			ctx := cmd.Context()
			a, err := deps.openApp(ctx)
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			model, err := a.Model(modelName)
			if err != nil {
				return mapCommandError(err)
			}

			rec := &models.Record{ID: id}
			if id != "" {
				existing, err := a.Manager().Get(ctx, model, id)
				switch {
				case err == nil:
					rec = existing
				case !errors.Is(err, common.ErrorNotFound):
					return mapCommandError(err)
				}
			}

			if cmd.Flags().Changed("path") {
				rec.FilePath = path
			}
			if cmd.Flags().Changed("comment") {
				rec.Comment = comment
			}
			switch {
			case cmd.Flags().Changed("content"):
				rec.Content = content
			case contentFile == "-":
				b, err := io.ReadAll(deps.in)
				if err != nil {
					return mapCommandError(err)
				}
				rec.Content = string(b)
			case contentFile != "":
				b, err := os.ReadFile(contentFile)
				if err != nil {
					return mapCommandError(err)
				}
				rec.Content = string(b)
			}

			if rec.FilePath == "" {
				return usageErrorf("--path is required")
			}

			if err := a.Manager().Save(ctx, model, rec); err != nil {
				return mapCommandError(err)
			}
			_, err = fmt.Fprintln(deps.out, rec.ID)
			return mapCommandError(err)
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model in app.Model form")
	cmd.Flags().StringVar(&id, "id", "", "record id; updates the record when it exists")
	cmd.Flags().StringVarP(&path, "path", "p", "", "file path the content is written to")
	cmd.Flags().StringVar(&content, "content", "", "file content")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "read content from this file, '-' for stdin")
	cmd.Flags().StringVar(&comment, "comment", "", "free text comment")
	return cmd
}

func newDeleteCommand(deps *commandDeps) *cobra.Command {
	var modelName string

	cmd := &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete records and remove their files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelName == "" {
				return usageErrorf("--model is required")
			}

			ctx := cmd.Context()
			a, err := deps.openApp(ctx)
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			model, err := a.Model(modelName)
			if err != nil {
				return mapCommandError(err)
			}

			for _, id := range args {
				rec, err := a.Manager().Get(ctx, model, id)
				if err != nil {
					return mapCommandError(fmt.Errorf("record %s: %w", id, err))
				}
				if err := a.Manager().Delete(ctx, model, rec); err != nil {
					return mapCommandError(err)
				}
				fmt.Fprintf(deps.out, "Deleted %s (%s)\n", rec.ID, rec)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model in app.Model form")
	return cmd
}

type listedRecord struct {
	ID        string `json:"id"`
	FilePath  string `json:"file_path"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func newListCommand(deps *commandDeps) *cobra.Command {
	var (
		modelName string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records of a model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 {
				return usageErrorf("list does not accept positional arguments")
			}
			if modelName == "" {
				return usageErrorf("--model is required")
			}

			ctx := cmd.Context()
			a, err := deps.openApp(ctx)
			if err != nil {
				return mapCommandError(err)
			}
			defer a.Close()

			model, err := a.Model(modelName)
			if err != nil {
				return mapCommandError(err)
			}
			recs, err := a.Manager().List(ctx, model)
			if err != nil {
				return mapCommandError(err)
			}

			if asJSON {
				out := make([]listedRecord, 0, len(recs))
				for _, r := range recs {
					out = append(out, listedRecord{
						ID:        r.ID,
						FilePath:  r.FilePath,
						Comment:   r.Comment,
						CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
						UpdatedAt: r.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
					})
				}
				enc := json.NewEncoder(deps.out)
				enc.SetIndent("", "  ")
				return mapCommandError(enc.Encode(out))
			}

			tw := tabwriter.NewWriter(deps.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tFILE PATH\tCOMMENT")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.FilePath, r.Comment)
			}
			return mapCommandError(tw.Flush())
		},
	}

	cmd.Flags().StringVarP(&modelName, "model", "m", "", "model in app.Model form")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}
