package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/internal/demo"
	"github.com/hart-dev/hart/pkg/dom/memdom"
	"github.com/hart-dev/hart/pkg/render"
	"github.com/hart-dev/hart/pkg/telemetry"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		steps  int
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Run the demo script and print the result",
		Long: `Run the scripted todo session on an in-memory DOM, then print the
final markup and how many operations of each type were applied.

Examples:
  hart render
  hart render --steps=3 --pretty
  hart render -n 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			totals := map[string]int{}
			passes := 0
			count := hart.ObserverFunc(func(p *telemetry.Pass) {
				passes++
				for typ, n := range telemetry.CountOps(p.Ops) {
					totals[typ] += n
				}
			})

			body := memdom.NewElement("body")
			d := newDemo(cfg, newLogger(cfg, cmd.ErrOrStderr()), body, hart.WithRecorder(count))
			script := demo.Script()
			if steps >= 0 && steps < len(script) {
				script = script[:steps]
			}
			if err := d.Run(cmd.Context(), script, nil); err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty, HideComments: true, Properties: true})
			html, err := r.RenderToString(body.FirstChild())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, html)
			fmt.Fprintln(out)

			success(out, "%d passes, %d nodes, %d hook entries", passes, d.App().Arena().Len(), d.App().Store().Len())
			types := make([]string, 0, len(totals))
			for typ := range totals {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				info(out, "%-8s %d", typ, totals[typ])
			}
			return d.App().Close()
		},
	}

	cmd.Flags().IntVar(&steps, "steps", -1, "Number of script steps to run (default all)")
	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the markup")

	return cmd
}
