// Package main provides the CLI entry point for expivot-go.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/expivot-go/internal/config"
	"github.com/ukaji3/expivot-go/internal/web"
	"github.com/ukaji3/expivot-go/pkg/expivot"
	"github.com/ukaji3/expivot-go/pkg/expivot/models"
	"github.com/ukaji3/expivot-go/pkg/expivot/output"
)

var (
	outputPath   string
	pretty       bool
	format       string
	sheet        string
	rangeRef     string
	textColumns  string
	rowFields    []string
	colFields    []string
	valueFields  []string
	aggregation  string
	filterColumn string
	filterValues []string
	addr         string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "expivot",
		Short: "Pivot spreadsheet data",
		Long: `expivot-go builds pivot tables (cross-tabulations) from Excel and CSV files.

Pick a sheet, optionally filter rows on one column, choose row, column and
value fields and an aggregation, then print or export the result.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSheetsCmd(), newPivotCmd(), newServeCmd())
	return rootCmd
}

func newSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List the worksheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func newPivotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pivot [input.xlsx|input.csv]",
		Short: "Compute a pivot table",
		Example: `  expivot pivot book.xlsx --sheet Detail --rows 收益中心 --cols 年月 --values 金額 --agg sum
  expivot pivot data.csv --rows region --values sales --filter-column region --filter-value E -o out.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runPivot,
	}

	flags := cmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	flags.StringVar(&format, "format", "table", "Output format: table, csv, json")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	flags.StringVar(&sheet, "sheet", "", "Worksheet name (default: first sheet)")
	flags.StringVar(&rangeRef, "range", "", "Restrict loading to a cell range, e.g. B2:F100")
	flags.StringVar(&textColumns, "text-columns", strings.Join(expivot.DefaultTextColumns, ","), "Comma-separated columns to keep as text (\"-\" for none)")
	flags.StringSliceVar(&rowFields, "rows", nil, "Row (index) fields")
	flags.StringSliceVar(&colFields, "cols", nil, "Column fields")
	flags.StringSliceVar(&valueFields, "values", nil, "Numeric value fields")
	flags.StringVar(&aggregation, "agg", "sum", "Aggregation: sum, mean, count, min, max, median, std")
	flags.StringVar(&filterColumn, "filter-column", "", "Column to filter on")
	flags.StringArrayVar(&filterValues, "filter-value", nil, "Allowed value of the filter column (repeatable)")
	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the browser UI",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides EXPIVOT_ADDR)")
	return cmd
}

func runSheets(cmd *cobra.Command, args []string) error {
	info, err := expivot.SheetNames(args[0])
	if err != nil {
		return err
	}

	jsonData, err := output.WorkbookToJSON(info, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
	return nil
}

func runPivot(cmd *cobra.Command, args []string) error {
	agg, err := models.ParseAggregation(aggregation)
	if err != nil {
		return err
	}

	opts := expivot.Options{
		Sheet:       sheet,
		Range:       rangeRef,
		TextColumns: parseTextColumns(textColumns),
	}
	table, err := expivot.Load(args[0], opts)
	if err != nil {
		return fmt.Errorf("loading failed: %w", err)
	}

	var filter *models.FilterSpec
	if filterColumn != "" {
		if _, ok := table.Column(filterColumn); !ok {
			return fmt.Errorf("filter column %q does not exist", filterColumn)
		}
		filter = &models.FilterSpec{Column: filterColumn, AllowedValues: filterValues}
	}
	filtered := expivot.ApplyFilter(table, filter)

	result, err := expivot.Evaluate(filtered, table.Schema(), models.PivotRequest{
		RowFields:    rowFields,
		ColumnFields: colFields,
		ValueFields:  valueFields,
		Aggregation:  agg,
	})
	if err != nil {
		var verr *expivot.ValidationError
		if errors.As(err, &verr) {
			for _, w := range verr.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
			}
		}
		return fmt.Errorf("pivot failed: %w", err)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w.Message)
	}

	var buf bytes.Buffer
	if err := writeResult(&buf, result); err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

func writeResult(w io.Writer, result *models.ResultTable) error {
	switch format {
	case "table":
		output.RenderTable(w, result)
		return nil
	case "csv":
		return output.WriteCSV(w, result)
	case "json":
		jsonData, err := output.ToJSON(result, pretty)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	default:
		return fmt.Errorf("invalid format: %s (must be table, csv, or json)", format)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}
	if addr != "" {
		cfg.Addr = addr
	}

	app, err := web.NewApp(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Run(ctx)
}

// parseTextColumns reads the --text-columns flag; "-" disables forced text columns.
func parseTextColumns(s string) []string {
	if strings.TrimSpace(s) == "-" {
		return []string{}
	}
	return config.SplitList(s)
}
