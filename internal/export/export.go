package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/solwatch/wallet-analyzer/internal/analysis"
	"github.com/solwatch/wallet-analyzer/internal/logger"
	"go.uber.org/zap"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format        ExportFormat
	OnlyCompleted bool // only export fully exited positions
	MintFilter    string
	OutputDir     string
}

// ReportExporter writes wallet analysis reports to disk
type ReportExporter struct {
	logger *zap.Logger
}

// NewReportExporter creates a new report exporter
func NewReportExporter(logger *zap.Logger) *ReportExporter {
	return &ReportExporter{
		logger: logger,
	}
}

// ExportReport writes one wallet's report based on the provided options and
// returns the output path.
func (re *ReportExporter) ExportReport(report *analysis.WalletReport, options ExportOptions) (string, error) {
	positions := re.filterPositions(report.Positions, options)

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].WeightedHoldTimeHrs < positions[j].WeightedHoldTimeHrs
	})

	filename := re.generateFilename(report.WalletAddress, options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = re.exportToCSV(report, positions, outputPath)
	case FormatJSON:
		err = re.exportToJSON(report, positions, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}

	if err != nil {
		return "", err
	}

	re.logger.Info("Report exported",
		zap.String("file", outputPath),
		zap.String("wallet", report.WalletAddress),
		zap.Int("positions", len(positions)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// filterPositions applies the option filters to the position list
func (re *ReportExporter) filterPositions(positions []analysis.PositionMetrics, options ExportOptions) []analysis.PositionMetrics {
	var filtered []analysis.PositionMetrics

	for _, pos := range positions {
		if options.OnlyCompleted && !pos.IsCompleted {
			continue
		}
		if options.MintFilter != "" && pos.Mint != options.MintFilter {
			continue
		}
		filtered = append(filtered, pos)
	}

	return filtered
}

// generateFilename creates a filename from the wallet and options
func (re *ReportExporter) generateFilename(walletAddress string, options ExportOptions) string {
	timestamp := time.Now().Format("20060102_150405")

	prefix := "report"
	if len(walletAddress) >= 8 {
		prefix += "_" + walletAddress[:8]
	}
	if options.OnlyCompleted {
		prefix += "_completed"
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// positionCSVHeaders returns the CSV column names for position rows
func positionCSVHeaders() []string {
	return []string{
		"mint", "weighted_hold_time_hours", "peak_position",
		"current_position", "is_completed", "unmatched_disposals",
	}
}

func positionToCSV(pos *analysis.PositionMetrics) []string {
	return []string{
		pos.Mint,
		strconv.FormatFloat(pos.WeightedHoldTimeHrs, 'f', 6, 64),
		strconv.FormatFloat(pos.PeakPosition, 'f', 9, 64),
		strconv.FormatFloat(pos.CurrentPosition, 'f', 9, 64),
		strconv.FormatBool(pos.IsCompleted),
		strconv.Itoa(pos.UnmatchedDisposals),
	}
}

// exportToCSV writes the position rows through the shared CSV writer
func (re *ReportExporter) exportToCSV(report *analysis.WalletReport, positions []analysis.PositionMetrics, outputPath string) error {
	writer, err := logger.NewSafeCSVWriter(outputPath, positionCSVHeaders(), 30*time.Second, re.logger)
	if err != nil {
		return fmt.Errorf("failed to create CSV writer: %w", err)
	}
	defer writer.Close()

	for i := range positions {
		if err := writer.WriteRecord(positionToCSV(&positions[i])); err != nil {
			return fmt.Errorf("failed to write position: %w", err)
		}
	}

	return writer.Flush()
}

// exportToJSON writes the full report with metadata
func (re *ReportExporter) exportToJSON(report *analysis.WalletReport, positions []analysis.PositionMetrics, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime    time.Time                   `json:"export_time"`
		WalletAddress string                      `json:"wallet_address"`
		PositionCount int                         `json:"position_count"`
		Positions     []analysis.PositionMetrics  `json:"positions"`
		PnL           []analysis.PnLResult        `json:"pnl"`
		Distribution  analysis.DistributionReport `json:"distribution"`
	}{
		ExportTime:    time.Now(),
		WalletAddress: report.WalletAddress,
		PositionCount: len(positions),
		Positions:     positions,
		PnL:           report.PnL,
		Distribution:  report.Distribution,
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
