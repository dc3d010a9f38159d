// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Image2pdf converts a raster image into a one-page PDF file, with an
// annotation banner above the image.
//
// Usage:
//
//	image2pdf [flags] image [output.pdf]
//
// Settings are read from $XDG_CONFIG_HOME/image2pdf/image2pdf.ini, which is
// created with the default settings on first use, or from the file given
// with -config, which must exist.  Command line flags take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"seehuhn.de/go/image2pdf/config"
	"seehuhn.de/go/image2pdf/convert"
	"seehuhn.de/go/image2pdf/internal/buildinfo"
	"seehuhn.de/go/image2pdf/internal/logging"
	"seehuhn.de/go/image2pdf/internal/profile"
	"seehuhn.de/go/image2pdf/metadata"
	"seehuhn.de/go/image2pdf/publish"
	"seehuhn.de/go/image2pdf/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configFile string
	outDir     string
	factor     float64
	text       string
	meta       metadata.PdfMetaData
	keywords   string
	overwrite  bool
	upload     bool
	envFile    string
	manifest   string
	debug      bool
	cpuprofile string
	memprofile string

	input  string
	output string
	isSet  map[string]bool
}

// run executes the command and returns the exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opt := &options{}
	flags := flag.NewFlagSet("image2pdf", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opt.configFile, "config", "", "ini `file` to use")
	flags.StringVar(&opt.outDir, "o", "", "output `directory`")
	flags.Float64Var(&opt.factor, "factor", 0, "enlargement `factor` for the page height")
	flags.StringVar(&opt.text, "text", "", "annotation `text`")
	flags.StringVar(&opt.meta.Title, "title", "", "document title")
	flags.StringVar(&opt.meta.Author, "author", "", "document author")
	flags.StringVar(&opt.meta.Subject, "subject", "", "document subject")
	flags.StringVar(&opt.keywords, "keywords", "", "comma separated document keywords")
	flags.BoolVar(&opt.overwrite, "f", false, "overwrite an existing output file")
	flags.BoolVar(&opt.upload, "upload", false, "publish the result")
	flags.StringVar(&opt.envFile, "env", ".env", "`file` with S3 credentials")
	flags.StringVar(&opt.manifest, "manifest", "", "write a YAML manifest to `file`")
	flags.BoolVar(&opt.debug, "v", false, "enable debug logging")
	flags.StringVar(&opt.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	flags.StringVar(&opt.memprofile, "memprofile", "", "write memory profile to `file`")
	version := flags.Bool("version", false, "print the version and exit")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] image [output.pdf]\n\n", flags.Name())
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	} else if err != nil {
		return 2
	}
	if *version {
		fmt.Fprint(stdout, buildinfo.Version+"\n")
		return 0
	}
	if flags.NArg() < 1 || flags.NArg() > 2 {
		flags.Usage()
		return 2
	}
	opt.input = flags.Arg(0)
	opt.output = flags.Arg(1)
	opt.isSet = make(map[string]bool)
	flags.Visit(func(f *flag.Flag) { opt.isSet[f.Name] = true })

	logger, err := logging.New(opt.debug)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer logger.Sync()

	stopProfile, err := profile.Start(opt.cpuprofile, opt.memprofile, logger)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer stopProfile()

	err = opt.convert(ctx, logger, stdout)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (opt *options) convert(ctx context.Context, logger *zap.Logger, stdout io.Writer) error {
	prefs, err := opt.preferences()
	if err != nil {
		return err
	}

	var uploader *publish.Uploader
	if opt.upload {
		if !prefs.Publish.Enabled {
			return errors.New("publishing is not enabled in the [Publish] section")
		}
		creds, err := publish.FromEnv(opt.envFile)
		if err != nil {
			return err
		}
		uploader, err = publish.New(prefs.Publish, creds, logger)
		if err != nil {
			return err
		}
	}

	conv := convert.New(prefs, logger)
	conv.Overwrite = opt.overwrite
	meta := opt.meta
	meta.Keywords = metadata.ParseKeywords(opt.keywords)
	info := &convert.PdfInformation{
		AnnotationText: opt.text,
		Meta:           &meta,
	}
	res, err := conv.Convert(ctx, opt.input, opt.output, info)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, res.Output)

	var url string
	if uploader != nil {
		url, err = uploader.Upload(ctx, res.Output)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, url)
	}

	if opt.manifest != "" {
		m := report.FromResult(res, time.Now())
		m.URL = url
		err = m.WriteFile(opt.manifest)
		if err != nil {
			return err
		}
		logger.Debug("manifest written", zap.String("file", opt.manifest))
	}
	return nil
}

// preferences loads the configuration and applies the command line
// overrides.
func (opt *options) preferences() (*config.Preferences, error) {
	var prefs *config.Preferences
	var err error
	if opt.configFile != "" {
		prefs, err = config.Load(opt.configFile)
	} else {
		prefs, err = config.Default()
	}
	if err != nil {
		return nil, err
	}

	// config.Default returns a shared value
	p := *prefs
	if opt.isSet["o"] {
		p.Output.Directory = opt.outDir
	}
	if opt.isSet["factor"] {
		p.Output.EnlargementFactor = opt.factor
	}
	return &p, nil
}
