package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/spf13/cobra"

	"github.com/imagej/ijc/internal/app"
	"github.com/imagej/ijc/internal/objref"
	"github.com/imagej/ijc/internal/tui"
)

// runOptions are the input flags shared by `run` and `menu run`.
type runOptions struct {
	set    []string
	raw    []string
	args   string
	active string
	yes    bool
	query  string
	viewAs string
}

func (o *runOptions) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVar(&o.set, "set", nil, "set an input: name=value (repeatable)")
	f.StringArrayVar(&o.raw, "raw", nil, "send an input as JSON: name=<json> (repeatable)")
	f.StringVar(&o.args, "args", "", `inputs as one shell-quoted string: "a=1 b='two words'"`)
	f.StringVar(&o.active, "active", "", "active object for image inputs (object:<id>)")
	f.BoolVarP(&o.yes, "yes", "y", false, "do not prompt; submit the given values")
	f.StringVarP(&o.query, "query", "q", "", "JSONata expression applied to the outputs")
	f.StringVar(&o.viewAs, "view-as", "", "conversion format for object output links")
}

// assignments returns --args followed by --set, in order.
func (o *runOptions) assignments() ([][2]string, error) {
	var words []string
	if strings.TrimSpace(o.args) != "" {
		split, err := shlex.Split(o.args)
		if err != nil {
			return nil, fmt.Errorf("--args: %w", err)
		}
		words = append(words, split...)
	}
	words = append(words, o.set...)

	out := make([][2]string, 0, len(words))
	for _, w := range words {
		name, value, ok := app.ParseAssignment(w)
		if !ok {
			return nil, fmt.Errorf("invalid assignment %q (want name=value)", w)
		}
		out = append(out, [2]string{name, value})
	}
	return out, nil
}

func (o *runOptions) rawOverrides() (app.RawOverrides, error) {
	if len(o.raw) == 0 {
		return nil, nil
	}
	raw := make(app.RawOverrides, len(o.raw))
	for _, r := range o.raw {
		name, value, ok := app.ParseAssignment(r)
		if !ok {
			return nil, fmt.Errorf("invalid --raw %q (want name=<json>)", r)
		}
		raw[name] = value
	}
	return raw, nil
}

// apply sets flag-supplied values on the dialog's requests.
func (o *runOptions) apply(d *app.Dialog) (app.RawOverrides, error) {
	assignments, err := o.assignments()
	if err != nil {
		return nil, err
	}
	for _, a := range assignments {
		r, ok := app.FindRequest(d.Requests, a[0])
		if !ok {
			return nil, fmt.Errorf("module %s has no input %q", d.Module.ID().Class, a[0])
		}
		if err := r.SetValue(a[1]); err != nil {
			return nil, err
		}
	}
	raw, err := o.rawOverrides()
	if err != nil {
		return nil, err
	}
	for name := range raw {
		r, ok := app.FindRequest(d.Requests, name)
		if !ok {
			return nil, fmt.Errorf("module %s has no input %q", d.Module.ID().Class, name)
		}
		if r.Kind == app.RequestFile {
			return nil, fmt.Errorf("input %q takes a local file; use --set %s=PATH instead of --raw", name, name)
		}
	}
	return raw, nil
}

// runModule opens the module's dialog, fills it from flags and (on a
// terminal, unless --yes) the interactive form, then submits it.
func (o *runOptions) runModule(cmd *cobra.Command, s *app.Session, id string) error {
	ctx := cmd.Context()

	if o.active != "" {
		ref, err := objref.Parse(o.active)
		if err != nil {
			return usageError(err.Error())
		}
		s.SetActive(ref)
	}

	d, err := s.OpenDialog(ctx, id)
	if err != nil {
		return app.ErrorExit(err)
	}
	raw, err := o.apply(d)
	if err != nil {
		return usageError(err.Error())
	}

	if d.NeedsInput() && !o.yes && stdinIsTTY() {
		entered, err := tui.RunDialog(ctx, d)
		if err != nil {
			if errors.Is(err, tui.ErrDialogCancelled) {
				return app.ExitResult{Code: 130, Message: "cancelled", ToStderr: true}
			}
			return app.ErrorExit(err)
		}
		raw = raw.With(entered)
	}

	result, err := s.Submit(ctx, d, raw)
	if err != nil {
		return app.ErrorExit(err)
	}
	if o.viewAs != "" {
		for i := range result.Outputs {
			result.Outputs[i] = result.Outputs[i].WithFormat(s.ObjectsURL(), o.viewAs)
		}
	}

	format, outputPath := getOutputFlags(cmd)
	if o.query != "" {
		v, err := app.QueryOutputs(result, o.query)
		if err != nil {
			return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
		}
		return app.OutputResult(v, format, outputPath, app.OutputFormatJSON)
	}
	return app.OutputResultText(result, format, outputPath, func() string {
		return result.RenderHighlighted(highlighter(outputPath))
	})
}

func newRunCmd(c *cli) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <module>",
		Short: "Run a module",
		Long: `Run a module on the server.

Inputs come from --set/--args/--raw and, on a terminal, an input form
pre-filled with those values. File inputs take a local path; the files are
uploaded before the module runs. Image inputs use the active object.

Examples:
  ijc run Crop --active object:abc123 --set x=0 --set y=0 --set width=64
  ijc run command:net.imagej.ops.Hello --args "name='Jane Doe'" --yes
  ijc run Histogram --raw bins='[0,10,20]' -q 'counts'
  ijc run Threshold --view-as tif -F json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.session()
			if err != nil {
				return err
			}
			id, err := s.LookupModule(cmd.Context(), args[0])
			if err != nil {
				return app.ErrorExit(err)
			}
			return opts.runModule(cmd, s, id)
		},
	}

	opts.addFlags(cmd)

	return cmd
}
