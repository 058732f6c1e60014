package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/stops2control/aeolus"
	"github.com/stops2control/aeolus/config"
	"github.com/stops2control/aeolus/control"
	"github.com/stops2control/aeolus/logging"
	"github.com/stops2control/aeolus/render"
	"github.com/stops2control/aeolus/version"
)

func main() {
	yamlOut := flag.Bool("y", false, "Output the instruments as .yml files. This is the default unless the preferences say otherwise.")
	jsonOut := flag.Bool("j", false, "Output the instruments as .json files.")
	tmplDir := flag.String("t", "", "Output the instruments through the templates in this directory. Use \"-\" for the built-in template.")
	outPath := flag.String("o", "", "Directory where to write the output files. Directory and its parents are created if needed. By default, everything is written to standard output.")
	safe := flag.Bool("n", false, "Never overwrite files; if file already exists and would be overwritten, give an error.")
	controlOut := flag.Bool("m", false, "Include the MIDI control messages that switch every button on and off.")
	configPath := flag.String("c", "", "Read preferences from this .yml or .toml file, on top of the built-in and per-user preferences.")
	debug := flag.Bool("d", false, "Log debug messages, e.g. skipped directives.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if flag.NArg() == 0 || *help {
		flag.Usage()
		os.Exit(0)
	}
	prefs, err := config.Make(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load preferences: %v\n", err)
		os.Exit(1)
	}
	logCfg := prefs.Logging()
	logging.ApplyEnv(&logCfg)
	if *debug {
		logCfg.Level = "debug"
	}
	log := logging.New(os.Stderr, logCfg)
	format := prefs.Output.Format
	switch {
	case *jsonOut:
		format = config.FormatJSON
	case *yamlOut:
		format = config.FormatYAML
	case *tmplDir != "":
		format = config.FormatTemplate
	}
	var renderer *render.Renderer
	if format == config.FormatTemplate {
		if *tmplDir != "" && *tmplDir != "-" {
			renderer, err = render.NewFromTemplates(*tmplDir)
		} else {
			renderer, err = render.New()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating renderer: %v\n", err)
			os.Exit(1)
		}
	}
	var enc *control.Encoder
	if *controlOut || prefs.Output.Control {
		e := prefs.Encoder()
		enc = &e
	}
	output := func(name string, contents []byte) error {
		if *outPath == "" {
			_, err := os.Stdout.Write(contents)
			return err
		}
		if err := os.MkdirAll(*outPath, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %v", *outPath, err)
		}
		f := filepath.Join(*outPath, name)
		original, err := os.ReadFile(f)
		if err == nil {
			if bytes.Equal(original, contents) {
				return nil // no need to update
			}
			if *safe {
				return fmt.Errorf("file %v would be overwritten", f)
			}
		}
		if err := os.WriteFile(f, contents, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %v", f, err)
		}
		log.Info().Str("file", f).Msg("wrote")
		return nil
	}
	process := func(dir string) error {
		in, err := aeolus.Load(dir, aeolus.LoadOptions{Definition: prefs.Definition, Logger: &log})
		if err != nil {
			return err
		}
		log.Debug().
			Str("instrument", in.Label).
			Int("keyboards", len(in.Keyboards)).
			Int("divisions", len(in.Divisions)).
			Int("groups", len(in.Groups)).
			Int("buttons", in.NumButtons()).
			Msg("decoded")
		doc, err := render.NewDocument(in, enc)
		if err != nil {
			return fmt.Errorf("could not resolve instrument: %v", err)
		}
		switch format {
		case config.FormatJSON:
			b, err := render.JSON(doc)
			if err != nil {
				return fmt.Errorf("could not marshal the instrument as json: %v", err)
			}
			return output(in.Label+".json", append(b, '\n'))
		case config.FormatTemplate:
			files, err := renderer.Render(doc)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(files))
			for name := range files {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				if err := output(in.Label+"."+name, []byte(files[name])); err != nil {
					return err
				}
			}
			return nil
		default:
			b, err := render.YAML(doc)
			if err != nil {
				return fmt.Errorf("could not marshal the instrument as yaml: %v", err)
			}
			return output(in.Label+".yml", b)
		}
	}
	retval := 0
	for _, param := range flag.Args() {
		dirs, err := instrumentDirs(param, prefs.Definition)
		if err != nil {
			log.Error().Err(err).Str("path", param).Msg("no instruments")
			retval = 1
			continue
		}
		for _, dir := range dirs {
			if err := process(dir); err != nil {
				log.Error().Err(err).Str("instrument", dir).Msg("could not process instrument")
				retval = 1
			}
		}
	}
	os.Exit(retval)
}

// instrumentDirs returns path itself if it holds a definition file, and
// otherwise every subdirectory of path that does, as in an Aeolus stops
// directory.
func instrumentDirs(path, definition string) ([]string, error) {
	if info, err := os.Stat(filepath.Join(path, definition)); err == nil && !info.IsDir() {
		return []string{path}, nil
	}
	matches, err := filepath.Glob(filepath.Join(path, "*", definition))
	if err != nil {
		return nil, fmt.Errorf("could not glob the path %v for instruments: %v", path, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no %v files in %v or its subdirectories", definition, path)
	}
	dirs := make([]string, len(matches))
	for i, m := range matches {
		dirs[i] = filepath.Dir(m)
	}
	sort.Strings(dirs)
	return dirs, nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "stops2control. Input Aeolus instrument directories (or a stops directory), outputs their keyboards, divisions and interface groups.\nUsage: %s [flags] [path ...]\n", os.Args[0])
	flag.PrintDefaults()
}
