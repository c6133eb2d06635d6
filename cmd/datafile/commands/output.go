package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/internal/pathutil"
	"github.com/erraggy/datafile/loader"
)

// Output format names accepted by --format.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatCSV  = "csv"
)

var outputFormats = []string{FormatYAML, FormatJSON, FormatTOML, FormatCSV}

// ValidateOutputFormat returns an error unless format can be printed.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("invalid format %q. Valid formats: %v", format, outputFormats)
	}
	return nil
}

// writeDocument prints content to w in the given format.
func writeDocument(w io.Writer, content any, format string) error {
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	data, err := loader.Encode(content, loader.Format(format))
	if err != nil {
		return err
	}
	cliutil.Writef(w, "%s", data)
	return nil
}

// saveDocument writes content to path in the format implied by its extension.
func saveDocument(env *Env, path string, content any) (string, error) {
	clean, err := pathutil.SanitizeOutputPath(path)
	if err != nil {
		return "", err
	}
	mode, err := env.Config.Output.Mode()
	if err != nil {
		return "", err
	}
	if err := loader.Save(clean, content, loader.WithFileMode(mode), loader.WithLogger(env.Log)); err != nil {
		return "", err
	}
	env.Log.Info("wrote output", "path", clean, "format", string(loader.DetectFormat(clean)))
	return clean, nil
}
