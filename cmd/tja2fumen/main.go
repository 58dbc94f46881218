// Copyright 2026 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2026 Charles University, Faculty of Arts,
//                Institute of the Czech National Corpus
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tjatools/tja2fumen/cliopts"
	"github.com/tjatools/tja2fumen/internal/fsutil"
	"github.com/tjatools/tja2fumen/tja"
	"github.com/tjatools/tja2fumen/tja2fumen"
)

var (
	version   string
	build     string
	gitCommit string
)

// Exit codes per spec section 6: 0 success, 1 usage error, 2 parse
// error, 3 write error.
const (
	exitOK    = 0
	exitUsage = 1
	exitParse = 2
	exitWrite = 3
)

func outputPathFor(inputPath, outputDir string) func(tja.CourseKey) string {
	return func(key tja.CourseKey) string {
		path := fsutil.SiblingBinPath(inputPath, key.Difficulty.String(), key.Player.String())
		if outputDir == "" {
			return path
		}
		return filepath.Join(outputDir, filepath.Base(path))
	}
}

func runConvert(inputPath string, opts cliopts.Options) int {
	song, warnings, err := tja2fumen.ParseTJA(inputPath)
	if err != nil {
		log.Error().Err(err).Str("input", inputPath).Msg("could not parse tja source")
		return exitParse
	}
	courses, w2, err := tja2fumen.ConvertTJAToFumen(song, opts)
	warnings = append(warnings, w2...)
	if err != nil {
		log.Error().Err(err).Str("input", inputPath).Msg("could not translate chart")
		return exitParse
	}
	outFor := outputPathFor(inputPath, opts.OutputDir)
	for key, course := range courses {
		if err := tja2fumen.WriteFumen(outFor(key), course); err != nil {
			log.Error().Err(err).Str("input", inputPath).Msg("could not write fumen binary")
			return exitWrite
		}
	}
	for _, w := range warnings {
		log.Warn().Msg(w.Error())
	}
	return exitOK
}

func runInspect(inputPath string) int {
	course, err := tja2fumen.ParseFumen(inputPath, true)
	if err != nil {
		log.Error().Err(err).Str("input", inputPath).Msg("could not read fumen binary")
		return exitParse
	}
	fmt.Printf("difficulty=%d stars=%d style=%d measures=%d\n",
		course.Header.Difficulty, course.Header.Stars, course.Header.Style, len(course.Measures))
	return exitOK
}

func runRoundtrip(inputPath, outputPath string) int {
	course, err := tja2fumen.ParseFumen(inputPath, false)
	if err != nil {
		log.Error().Err(err).Str("input", inputPath).Msg("could not read fumen binary")
		return exitParse
	}
	if err := tja2fumen.WriteFumen(outputPath, course); err != nil {
		log.Error().Err(err).Str("output", outputPath).Msg("could not write fumen binary")
		return exitWrite
	}
	return exitOK
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	flag.Usage = func() {
		fmt.Println("\n+-------------------------------------------------------------+")
		fmt.Println("|  tja2fumen - converts Taiko no Tatsujin .tja charts into the |")
		fmt.Println("|              proprietary .bin fumen chart format            |")
		fmt.Printf("|                       version %s                         |\n", version)
		fmt.Println("+-------------------------------------------------------------+")
		fmt.Println("\nUsage:")
		fmt.Println("tja2fumen [options] <input.tja>\n\tconvert, writing a sibling .bin per course")
		fmt.Println("tja2fumen inspect <input.bin>\n\tprint a summary of a fumen binary")
		fmt.Println("tja2fumen roundtrip <input.bin> <output.bin>\n\tparse then re-write a fumen binary")
		fmt.Println("tja2fumen version\n\tshow detailed version information")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
	}

	convertCommand := flag.NewFlagSet("convert", flag.ExitOnError)
	optionsPath := convertCommand.String("options", "", "path to a converter-options JSON file")
	outputDir := convertCommand.String("output-dir", "", "override the sibling-file output directory")

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(exitUsage)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalChan
		log.Warn().Msg("interrupted")
		os.Exit(130)
	}()

	switch os.Args[1] {
	case "inspect":
		if len(os.Args) < 3 {
			flag.Usage()
			os.Exit(exitUsage)
		}
		os.Exit(runInspect(os.Args[2]))

	case "roundtrip":
		if len(os.Args) < 4 {
			flag.Usage()
			os.Exit(exitUsage)
		}
		os.Exit(runRoundtrip(os.Args[2], os.Args[3]))

	case "version":
		fmt.Printf("tja2fumen %s\nbuild date: %s\nlast commit: %s\n", version, build, gitCommit)
		os.Exit(exitOK)

	default:
		convertCommand.Parse(os.Args[1:])
		if convertCommand.NArg() < 1 {
			flag.Usage()
			os.Exit(exitUsage)
		}
		opts := cliopts.Default()
		if *optionsPath != "" {
			loaded, err := cliopts.Load(*optionsPath)
			if err != nil {
				log.Error().Err(err).Str("path", *optionsPath).Msg("could not load options file")
				os.Exit(exitUsage)
			}
			opts = loaded
		}
		if *outputDir != "" {
			opts.OutputDir = *outputDir
		}
		os.Exit(runConvert(convertCommand.Arg(0), opts))
	}
}
