// Package buildinfo prints the banner and the link-time build metadata.
//
// Set the values with -ldflags, e.g.
//
//	-X github.com/dmitrijs2005/leadsession/internal/buildinfo.buildVersion=v1.0.0
package buildinfo

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes an ASCII-art banner for appName followed by the
// version, date and commit.
func PrintBuildData(w io.Writer, appName string) {
	fmt.Fprintln(w, figure.NewFigure(appName, "cybermedium", true).String())
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
