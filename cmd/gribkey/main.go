// Command gribkey reads and edits the keys of a binary message.
//
//	gribkey -d spectral.yaml msg.bin get numberOfValues
//	gribkey -d spectral.yaml -o out.bin msg.bin set values=1,2,3 identifier=GRIB
//	gribkey -d spectral.yaml msg.bin dump
//	gribkey -d spectral.yaml msg.bin keys --namespace ls
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/oy3o/grib"
	"github.com/oy3o/grib/config"
	"github.com/oy3o/grib/definition"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath     string
	definitionPath string
	outputPath     string
	namespace      string
	unique         bool
	skipComputed   bool
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("gribkey", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.configPath, "config", "", "TOML config file")
	flagSet.StringVarP(&opts.definitionPath, "definition", "d", "", "definition file (.yaml, .jsonc, .cbor); overrides the config")
	flagSet.StringVarP(&opts.outputPath, "output", "o", "", "where set writes the message (default: rewrite FILE)")
	flagSet.StringVar(&opts.namespace, "namespace", "", "keys: list only this namespace")
	flagSet.BoolVar(&opts.unique, "unique", false, "keys: list repeated names once")
	flagSet.BoolVar(&opts.skipComputed, "skip-computed", false, "keys: leave out derived fields")
	flagSet.Usage = func() {
		fmt.Fprintf(stderr, "usage: gribkey [flags] FILE get KEY... | set KEY=VALUE... | dump | keys\n\n")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	rest := flagSet.Args()
	if len(rest) < 2 {
		flagSet.Usage()
		return errors.New("need FILE and a command")
	}
	file, command, operands := rest[0], rest[1], rest[2:]

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return err
		}
	}
	if opts.definitionPath != "" {
		cfg.DefinitionPath = opts.definitionPath
	}
	if cfg.DefinitionPath == "" {
		return errors.New("no definition: pass --definition or set it in the config")
	}
	logger := cfg.Logger(stderr)

	fields, err := definition.Load(cfg.DefinitionPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	msg, err := grib.Open(fields, data, cfg.Options(stderr)...)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	defer msg.Close()
	logger.Debug().Str("file", file).Int("size", msg.Size()).Str("command", command).Msg("opened")

	switch command {
	case "get":
		return get(msg, operands, stdout)
	case "set":
		if err := set(msg, operands); err != nil {
			return err
		}
		out := opts.outputPath
		if out == "" {
			out = file
		}
		encoded, err := msg.MarshalBinary()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, encoded, 0o644); err != nil {
			return err
		}
		logger.Info().Str("output", out).Int("size", len(encoded)).Msg("message written")
		return nil
	case "dump":
		return msg.Dump(stdout)
	case "keys":
		var filter grib.KeyFilter
		if opts.unique {
			filter |= grib.SkipDuplicates
		}
		if opts.skipComputed {
			filter |= grib.SkipComputed
		}
		keys, err := msg.Keys(opts.namespace, filter)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Fprintln(stdout, k)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func get(msg *grib.Message, keys []string, w io.Writer) error {
	if len(keys) == 0 {
		return errors.New("get: need at least one KEY")
	}
	for _, k := range keys {
		v, err := msg.GetText(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s = %s\n", k, v)
	}
	return nil
}

// set applies KEY=VALUE assignments in order. A value with commas is an integer array.
func set(msg *grib.Message, assignments []string) error {
	if len(assignments) == 0 {
		return errors.New("set: need at least one KEY=VALUE")
	}
	for _, as := range assignments {
		key, value, ok := strings.Cut(as, "=")
		if !ok || key == "" {
			return fmt.Errorf("set: %q is not KEY=VALUE", as)
		}
		var err error
		if strings.Contains(value, ",") {
			var vals []int64
			if vals, err = parseInts(value); err == nil {
				err = msg.SetIntArray(key, vals)
			}
		} else {
			err = msg.SetText(key, value)
		}
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}
	return nil
}

func parseInts(s string) ([]int64, error) {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		var v int64
		if _, err := fmt.Sscan(strings.TrimSpace(part), &v); err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", grib.ErrTypeCoercion, part)
		}
		out = append(out, v)
	}
	return out, nil
}
