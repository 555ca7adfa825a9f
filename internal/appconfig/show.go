package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		cfg = &fallback
	}
	fmt.Fprintf(out, "  Debug:        %v\n", cfg.Debug)
	fmt.Fprintf(out, "  JSON Mode:    %v\n", cfg.JSONMode)
	fmt.Fprintf(out, "  Log File:     %s\n", orNone(cfg.LogFilePath()))
	fmt.Fprintf(out, "  Title:        %s\n", cfg.ReportTitle())
	fmt.Fprintf(out, "  Output:       %s\n", cfg.OutputPath())
	fmt.Fprintf(out, "  Chart Format: %s\n", cfg.Format())
	fmt.Fprintf(out, "  Chart Size:   %dx%d\n", cfg.Width(), cfg.Height())
	fmt.Fprintf(out, "  Addr:         %s\n", cfg.ListenAddr())
	fmt.Fprintf(out, "  Watch:        %v\n", cfg.Watch)
	fmt.Fprintf(out, "  Store:        %s\n", cfg.StorePath())
	fmt.Fprintf(out, "  Select All:   %v\n", cfg.SelectAll)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
