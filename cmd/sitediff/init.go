package main

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/nao1215/sitediff/internal/config"
	"github.com/nao1215/sitediff/internal/database"
	"github.com/spf13/cobra"
)

//go:embed templates/sitediff.yaml
var configTemplate embed.FS

// configFileName is the default configuration file name.
const configFileName = config.DefaultConfigFile

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new sitediff configuration file",
		Long: `Initialize creates a new .sitediff configuration file in the current directory.

The generated file includes:
- Default politeness profile and page limit
- Commented examples for site-specific denylists and headers
- Documentation for all available options

Examples:
  # Create .sitediff in current directory
  sitediff init

  # Create config file at a specific path
  sitediff init -o ~/.config/sitediff/config.yaml

  # Pre-register sites so their entries are ready to edit
  sitediff init --site example.com --site localhost:8080

  # Force overwrite existing file
  sitediff init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")
	cmd.Flags().StringSliceP("site", "s", nil,
		"Add an empty entry for this site (repeatable)")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	sites, err := cmd.Flags().GetStringSlice("site")
	if err != nil {
		return err
	}
	hosts, err := siteHosts(sites)
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/sitediff.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}
	content = appendSites(content, hosts)

	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Site headers may hold credentials.
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	if _, err := config.LoadConfigFile(outputPath); err != nil {
		return fmt.Errorf("generated configuration does not load: %w", err)
	}

	writeInitSummary(cmd.OutOrStdout(), outputPath, hosts)
	return nil
}

// siteHosts turns --site values into config keys: the host with any port,
// without duplicates.
func siteHosts(sites []string) ([]string, error) {
	hosts := make([]string, 0, len(sites))
	for _, site := range sites {
		_, host, err := parseTarget(site)
		if err != nil {
			return nil, fmt.Errorf("invalid --site %q: %w", site, err)
		}
		if !slices.Contains(hosts, host) {
			hosts = append(hosts, host)
		}
	}
	return hosts, nil
}

// appendSites adds an empty entry per host under the template's trailing
// sites key.
func appendSites(content []byte, hosts []string) []byte {
	if len(hosts) == 0 {
		return content
	}
	var sb strings.Builder
	sb.Write(content)
	if !strings.HasSuffix(sb.String(), "\n") {
		sb.WriteString("\n")
	}
	for _, host := range hosts {
		fmt.Fprintf(&sb, "  %q: {}\n", host)
	}
	return []byte(sb.String())
}

func writeInitSummary(out io.Writer, outputPath string, hosts []string) {
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	for _, host := range hosts {
		fmt.Fprintf(out, "  site entry: %s\n", host)
	}
	fmt.Fprintln(out, "\nsitediff will write to:")
	fmt.Fprintf(out, "  captures: %s (change with 'crawl --dir')\n", config.DefaultCaptureDir)
	fmt.Fprintf(out, "  catalog:  %s\n", filepath.Join(config.XDGDataDir(), database.DBFileName))
	fmt.Fprintln(out, "\nEdit the configuration to set per-site options such as:")
	fmt.Fprintln(out, "  - Politeness profile and page limit")
	fmt.Fprintln(out, "  - URL substrings to skip")
	fmt.Fprintln(out, "  - Cookies and headers sent with every request")
}
