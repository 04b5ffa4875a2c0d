package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"hemtjan.st/kraft-sml/sml"
)

var (
	rootCmd = &cobra.Command{
		Use:   "sml-analyze [file...]",
		Short: "Decode SML meter data",
		Long: "sml-analyze decodes Smart Message Language files as sent by electricity meters.\n" +
			"Input is read from the given files, or from stdin when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logrus.SetLevel(lvl)

			if len(args) == 0 {
				return runAnalyze(cmd.Context(), cmd.OutOrStdout(), "stdin", cmd.InOrStdin())
			}
			for _, name := range args {
				if err := analyzeFile(cmd.Context(), cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	hexInput bool
	logLevel string
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&hexInput, "hex", false, "input is a hex dump instead of binary")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Fatal(err)
	}
}

func analyzeFile(ctx context.Context, w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return runAnalyze(ctx, w, name, f)
}

func runAnalyze(_ context.Context, w io.Writer, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if hexInput {
		if data, err = decodeHex(string(data)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return analyze(w, name, data)
}

func analyze(w io.Writer, name string, data []byte) error {
	log := logrus.WithField("input", name)

	dec := sml.NewDecoder(data,
		sml.WithLogger(log),
		sml.WithFileHandler(func(entries []sml.Entry) {
			fmt.Fprintln(w, sml.FormatJSON(entries))
		}),
	)
	if err := dec.Decode(); err != nil {
		log.WithFields(logrus.Fields{
			"code": sml.Code(err),
			"pos":  dec.Pos(),
		}).Error("decoding failed")
		return fmt.Errorf("%s: %w", name, err)
	}

	reading := dec.Reading()
	out, err := json.MarshalIndent(&reading, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// decodeHex accepts dumps with whitespace, colons or a 0x prefix between
// bytes, as copied from a terminal or a logic analyzer.
func decodeHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "0x", "")
	s = strings.ReplaceAll(s, "0X", "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ':', ',':
			return -1
		}
		return r
	}, s)
	return hex.DecodeString(s)
}
