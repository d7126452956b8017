package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lumen/internal/diag"
	"lumen/internal/diagfmt"
	"lumen/internal/parser"
	"lumen/internal/sema"
	"lumen/internal/source"
	"lumen/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.lum|directory>",
	Short: "Run semantic checks on a lumen source file or directory",
	Long:  `Parse and semantically analyze lumen source files, reporting the first failure per file`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}

	// Flags win over the project manifest; the manifest wins over defaults.
	if manifest, ok, err := loadProjectManifest(filepath.Dir(path)); err != nil {
		return err
	} else if ok {
		if !cmd.Flags().Changed("format") && manifest.Config.Diagnostics.Format != "" {
			format = manifest.Config.Diagnostics.Format
		}
		if !cmd.Root().PersistentFlags().Changed("color") && manifest.Config.Diagnostics.Color != "" {
			colorMode = manifest.Config.Diagnostics.Color
		}
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}

	styled := colorEnabled(colorMode, os.Stdout)
	// fatih/color disables itself off-terminal; honor an explicit --color=on.
	color.NoColor = !styled

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return checkDir(path, format, styled, jobs)
	}

	out, failed := checkFile(path, format, styled)
	fmt.Print(out)
	if failed {
		return fmt.Errorf("%s: check failed", path)
	}
	return nil
}

// checkFile parses and analyzes one file, returning the rendered report of
// its first failure and whether it failed at all.
func checkFile(path, format string, styled bool) (string, bool) {
	src, err := source.ReadFileText(path)
	if err != nil {
		return fmt.Sprintf("%s: %v\n", path, err), true
	}

	file, err := parser.ParseFile(path, src)
	if err == nil {
		err = sema.Check(file)
	}
	if err == nil {
		return "", false
	}
	return renderFailure(err, format, styled), true
}

// renderFailure renders any semantic failure payload. Diagnostic chains
// honor the selected format; nilable traces are text-only.
func renderFailure(err error, format string, styled bool) string {
	var sb strings.Builder
	reader := source.FileReader{}
	styler := ui.NewStyler(styled)

	switch failure := err.(type) {
	case *diag.Diagnostic:
		failure.SetStyled(styled)
		if format == "json" {
			if jsonErr := diagfmt.JSON(&sb, failure); jsonErr != nil {
				return fmt.Sprintf("failed to encode diagnostics: %v\n", jsonErr)
			}
			return sb.String()
		}
		diagfmt.Text(&sb, failure, reader, styler)
	case *diag.NilableTrace:
		diagfmt.TraceText(&sb, failure, reader, styler)
	default:
		fmt.Fprintf(&sb, "%v\n", err)
	}
	return sb.String()
}

// checkDir analyzes every *.lum file under dir, fanning out across workers
// while keeping the output in path order.
func checkDir(dir, format string, styled bool, jobs int) error {
	files, err := listLumFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .lum files found in %s", dir)
	}

	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	type result struct {
		out    string
		failed bool
	}
	results := make([]result, len(files))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			out, failed := checkFile(path, format, styled)
			results[i] = result{out: out, failed: failed}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failures := 0
	for _, r := range results {
		if r.failed {
			failures++
		}
		fmt.Print(r.out)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d files failed", failures, len(files))
	}
	return nil
}

// listLumFiles returns a sorted list of all *.lum files under dir.
func listLumFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".lum") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
