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

// Licensify adds the licence header to all Go source files below the
// current directory.
//
// With -check, files are not modified; the command lists the files without
// a header and exits with status 1 if there are any.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

const header = `// seehuhn.de/go/image2pdf - convert raster images into annotated PDF files
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

`

type status int

const (
	statusOK status = iota
	statusUpdated
	statusMissing
	statusUnknown
)

func main() {
	check := flag.Bool("check", false, "only report files without header")
	flag.Parse()

	missing := 0
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(path) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		st, err := licensify(path, []byte(header), *check)
		if err != nil {
			return err
		}
		switch st {
		case statusUpdated:
			fmt.Println("updating " + path)
		case statusMissing:
			fmt.Println("missing header: " + path)
			missing++
		case statusUnknown:
			fmt.Println("ATTENTION " + path)
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	if missing > 0 {
		os.Exit(1)
	}
}

// skipDir reports whether a directory is excluded from the walk.  This
// covers hidden directories and directories ignored by the go tool.
func skipDir(path string) bool {
	if path == "." {
		return false
	}
	name := filepath.Base(path)
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}

// licensify makes sure that the named file starts with the header.  Files
// with some other leading comment are left alone and reported as
// statusUnknown.
func licensify(path string, header []byte, checkOnly bool) (status, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if bytes.HasPrefix(body, header) {
		return statusOK, nil
	}
	if !bytes.HasPrefix(body, []byte("package ")) {
		return statusUnknown, nil
	}
	if checkOnly {
		return statusMissing, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	out := make([]byte, 0, len(header)+len(body))
	out = append(out, header...)
	out = append(out, body...)
	err = os.WriteFile(path, out, fi.Mode().Perm())
	if err != nil {
		return 0, err
	}
	return statusUpdated, nil
}
