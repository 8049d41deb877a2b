package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/objref"
)

// clipboardWrite is replaced in tests.
var (
	defaultClipboardWrite = clipboard.WriteAll
	clipboardWrite        = defaultClipboardWrite
)

func newObjectsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objects",
		Aliases: []string{"object", "obj"},
		Short:   "List, upload and download server objects",
	}

	cmd.AddCommand(
		newObjectsListCmd(c),
		newObjectsUploadCmd(c),
		newObjectsGetCmd(c),
		newObjectsLinkCmd(c),
	)

	return cmd
}

func newObjectsListCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the server's objects with thumbnail links",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			refs, err := s.RefreshObjects(cmd.Context())
			if err != nil {
				return app.ErrorExit(err)
			}
			listing := app.ObjectListing{Objects: refs}

			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(listing, format, outputPath)
		},
	}
	return cmd
}

func newObjectsUploadCmd(c *cli) *cobra.Command {
	var typeHint string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file as a server object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := app.OpenLocalFile(path)
			if err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			defer f.Close()

			id, err := c.client().UploadObject(cmd.Context(), filepath.Base(path), f, typeHint)
			if err != nil {
				return app.ErrorExit(&app.UploadError{Path: path, Err: err})
			}

			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(app.UploadedObject{Path: path, ID: id}, format, outputPath)
		},
	}

	cmd.Flags().StringVar(&typeHint, "type", "", "object type hint sent to the server (e.g. image)")

	return cmd
}

func newObjectsGetCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <object> [format]",
		Short: "Download an object, optionally converted to a format",
		Long: `Download an object's bytes.

Without a format the object is fetched as stored; with one (png, tif, ...)
the server converts it. The bytes are written to -o/--output, or to stdout
when stdout is not a terminal.

Examples:
  ijc objects get object:abc123 png -o out.png
  ijc objects get object:abc123 > raw.bin`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := objref.Parse(args[0])
			if err != nil {
				return usageError(err.Error())
			}
			var format string
			if len(args) == 2 {
				format = args[1]
			}

			_, outputPath := getOutputFlags(cmd)
			if outputPath == "" && term.IsTerminal(int(os.Stdout.Fd())) {
				return usageError("refusing to write object bytes to a terminal; use -o <file>")
			}

			data, err := c.client().FetchObject(cmd.Context(), ref, format)
			if err != nil {
				return app.ErrorExit(err)
			}

			if outputPath == "" {
				if _, err := os.Stdout.Write(data); err != nil {
					return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
				}
				return nil
			}
			if err := app.WriteFileAtomic(outputPath, data, app.FilePerm); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return app.ExitResult{Code: 0, Message: fmt.Sprintf("Wrote %s (%d bytes)", outputPath, len(data)), ToStderr: false}
		},
	}
	return cmd
}

func newObjectsLinkCmd(c *cli) *cobra.Command {
	var copyLink bool

	cmd := &cobra.Command{
		Use:   "link <object>",
		Short: "Print the raw and conversion links of an object",
		Long: `Print the links retrieving an object as stored and converted.

The conversion format is --convert (default png). --copy puts the
conversion link on the clipboard.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := objref.Parse(args[0])
			if err != nil {
				return usageError(err.Error())
			}
			links := app.NewObjectLinks(c.client().ObjectsURL(), ref, c.cfg.Format)

			if copyLink {
				if err := clipboardWrite(links.ConvertURL); err != nil {
					return app.ExitResult{Code: 1, Message: "clipboard: " + err.Error(), ToStderr: true}
				}
			}

			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(links, format, outputPath)
		},
	}

	cmd.Flags().BoolVarP(&copyLink, "copy", "c", false, "copy the conversion link to the clipboard")

	return cmd
}
