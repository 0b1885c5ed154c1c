package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"storefront/internal/richtext"

	"github.com/spf13/cobra"
	"github.com/yosssi/gohtml"
)

// errEmptyOutput - the input did not produce any HTML.
var errEmptyOutput = errors.New("document rendered to empty output")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "richtext",
		Short:        "Rich-text document tools",
		SilenceUsage: true,
	}
	root.AddCommand(newRenderCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		pretty bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a rich-text JSON document to HTML",
		Long:  "Reads a rich-text JSON document from file, or stdin when no file is given, and writes HTML to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() {
					_ = f.Close()
				}()
				in = f
			}

			data, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			html := richtext.Render(data)
			if html == "" && strict {
				return errEmptyOutput
			}
			if pretty {
				html = gohtml.Format(html)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "indent the HTML output")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when the document renders to nothing")
	return cmd
}
