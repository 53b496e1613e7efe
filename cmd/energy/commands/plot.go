package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LNshuti/energy/internal/contracts"
	"github.com/LNshuti/energy/internal/gallery"
	"github.com/LNshuti/energy/pkg/logger"
)

// plotCmd represents the plot command
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Render indicator charts to PNG files",
	Long: `Render indicator charts for a selection and write them to a directory.

Selection rules match the server: at most 7 companies, and only one
indicator when more than one company is selected.

Example:
  go run ./cmd/energy plot --company "Exxon Mobil" --all
  go run ./cmd/energy plot --company BP --company Enbridge --indicator RSI --out ./charts`,
	RunE: runPlot,
}

var (
	plotCompanies  []string
	plotIndicators []string
	plotAll        bool
	plotOut        string
)

func init() {
	rootCmd.AddCommand(plotCmd)

	plotCmd.Flags().StringArrayVar(&plotCompanies, "company", nil, "company display name (repeatable)")
	plotCmd.Flags().StringArrayVar(&plotIndicators, "indicator", nil, "indicator: SMA, MACD, RSI, \"Bollinger Bands\" (repeatable)")
	plotCmd.Flags().BoolVar(&plotAll, "all", false, "select all indicators")
	plotCmd.Flags().StringVar(&plotOut, "out", ".", "output directory")
	_ = plotCmd.MarkFlagRequired("company")
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	a, err := newApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	indicators := plotIndicators
	if plotAll {
		indicators = gallery.SelectAllIndicators(true)
	}

	sel := contracts.Selection{Companies: plotCompanies, Indicators: indicators}

	PrintHeader("Indicator Plot", map[string]string{
		"Companies":  strings.Join(sel.Companies, ", "),
		"Indicators": strings.Join(sel.Indicators, ", "),
		"Output":     plotOut,
	})

	start := time.Now()
	res := a.gallery.Process(cmd.Context(), sel)
	if res.ErrorMessage != "" {
		PrintWarning(res.ErrorMessage)
		return fmt.Errorf("%s", res.ErrorMessage)
	}

	if err := os.MkdirAll(plotOut, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	for i, img := range res.Images {
		path := filepath.Join(plotOut, fileName(img))
		if err := os.WriteFile(path, img.PNG, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		PrintProgress("Plot", fmt.Sprintf("%s -> %s", img.Title, path), i+1, len(res.Images))
	}

	PrintSeparator()
	fmt.Printf("  %s\n", res.Summary())
	PrintSuccess(fmt.Sprintf("%d chart(s) written in %.2fs", len(res.Images), time.Since(start).Seconds()))
	return nil
}

// fileName builds a filesystem-safe name such as exxon-mobil_xom_sma.png
func fileName(img contracts.Image) string {
	slug := func(s string) string {
		var b strings.Builder
		dash := false
		for _, r := range strings.ToLower(s) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
				dash = false
			case !dash && b.Len() > 0:
				b.WriteByte('-')
				dash = true
			}
		}
		return strings.TrimSuffix(b.String(), "-")
	}
	return fmt.Sprintf("%s_%s_%s.png", slug(img.Company), slug(img.Ticker), slug(img.Indicator))
}
