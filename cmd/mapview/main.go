// Command mapview inspects site GeoJSON files and dry-runs the map core
// against the headless engine.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atlasfield/mapview/internal/config"
	"github.com/atlasfield/mapview/internal/logger"
	"github.com/atlasfield/mapview/pkg/draw"
	"github.com/atlasfield/mapview/pkg/mapengine"
	"github.com/atlasfield/mapview/pkg/mapengine/headless"
	"github.com/atlasfield/mapview/pkg/site"
	"github.com/atlasfield/mapview/pkg/style"
	"github.com/atlasfield/mapview/pkg/viewer"
)

func main() {
	root := &cobra.Command{
		Use:           "mapview",
		Short:         "Site map tooling: classify, validate, and dry-run render site collections",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newClassifyCmd(), newValidateCmd(), newRenderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadSites(path string) ([]site.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return site.DecodeCollection(data)
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <sites.geojson>",
		Short: "Print the display color and area for each site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := loadSites(args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tCOLOR\tHEX\tAREA_HA")
			for _, s := range sites {
				color := style.ClassifySite(s)
				area := "-"
				if s.HasGeometry() {
					area = fmt.Sprintf("%.2f", site.AreaHectares(s.Geometry))
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					s.ID, s.Name, s.Type, color, color.Hex(), area)
			}
			return w.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <sites.geojson>",
		Short: "Check that every site carries a well-formed closed polygon ring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := loadSites(args[0])
			if err != nil {
				return err
			}

			bad := 0
			for i, s := range sites {
				label := string(s.ID)
				if label == "" {
					label = fmt.Sprintf("#%d", i)
				}
				if !s.HasGeometry() {
					fmt.Fprintf(cmd.OutOrStdout(), "site %s: missing or non-polygon geometry\n", label)
					bad++
					continue
				}
				if err := site.ValidateRing(s.Geometry[0]); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "site %s: %v\n", label, err)
					bad++
				}
			}
			if bad > 0 {
				return fmt.Errorf("%d of %d sites invalid", bad, len(sites))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d sites OK\n", len(sites))
			return nil
		},
	}
}

// renderManifest is what `mapview render` emits: the layers, sources,
// and camera instructions a real engine would have received.
type renderManifest struct {
	Center   [2]float64          `json:"center" yaml:"center"`
	Zoom     float64             `json:"zoom" yaml:"zoom"`
	Editable bool                `json:"editable" yaml:"editable"`
	Sources  int                 `json:"sources" yaml:"sources"`
	Layers   []manifestLayer     `json:"layers" yaml:"layers"`
	Fit      *manifestFit        `json:"fit,omitempty" yaml:"fit,omitempty"`
	Controls []mapengine.Control `json:"controls" yaml:"controls"`
}

type manifestLayer struct {
	ID     string  `json:"id" yaml:"id"`
	Type   string  `json:"type" yaml:"type"`
	Source string  `json:"source" yaml:"source"`
	Fill   string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty" yaml:"stroke,omitempty"`
	Width  float64 `json:"width,omitempty" yaml:"width,omitempty"`
}

type manifestFit struct {
	Min     [2]float64 `json:"min" yaml:"min"`
	Max     [2]float64 `json:"max" yaml:"max"`
	Padding float64    `json:"padding" yaml:"padding"`
}

func newRenderCmd() *cobra.Command {
	var configPath string
	var editable bool
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "render <sites.geojson>",
		Short: "Run the full viewer pipeline headlessly and emit the layer manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("editable") {
				cfg.Editable = editable
			}

			sites, err := loadSites(args[0])
			if err != nil {
				return err
			}

			var eng *headless.Engine
			factory := func(opts mapengine.Options) (mapengine.Map, error) {
				eng = headless.New(opts)
				return eng, nil
			}

			v, err := viewer.New(factory, viewer.Options{
				Center:     cfg.CenterPoint(),
				Zoom:       cfg.Zoom,
				ImageryURL: cfg.ImageryURL,
				Logger:     logger.L(),
			}, viewer.Handlers{})
			if err != nil {
				return err
			}
			defer v.Close()

			if cfg.Editable {
				session := draw.NewSession(v.Engine(), logger.L(), nil)
				session.Attach()
				defer session.Detach()
			}

			v.SetSites(sites)
			eng.FinishStyleLoad()

			m := renderManifest{
				Center:   cfg.Center,
				Zoom:     cfg.Zoom,
				Editable: cfg.Editable,
				Sources:  eng.SourceCount(),
				Controls: eng.Controls(),
			}
			for _, l := range eng.Layers() {
				m.Layers = append(m.Layers, manifestLayer{
					ID:     l.ID,
					Type:   string(l.Type),
					Source: l.Source,
					Fill:   l.Paint.FillColor,
					Stroke: l.Paint.LineColor,
					Width:  l.Paint.LineWidth,
				})
			}
			if fits := eng.Fits(); len(fits) > 0 {
				last := fits[len(fits)-1]
				m.Fit = &manifestFit{
					Min:     last.Bounds.Min,
					Max:     last.Bounds.Max,
					Padding: last.Padding,
				}
			}

			var out []byte
			if asYAML {
				out, err = yaml.Marshal(m)
			} else {
				out, err = json.MarshalIndent(m, "", "  ")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to viewer YAML config")
	cmd.Flags().BoolVar(&editable, "editable", false, "Attach a draw session before rendering")
	cmd.Flags().BoolVarP(&asYAML, "yaml", "y", false, "Output as YAML instead of JSON")
	return cmd
}
