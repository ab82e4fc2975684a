// Copyright 2019 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package shell

import (
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-air/aigo/aig"
	"github.com/go-air/aigo/aiger"
	"github.com/go-air/aigo/blif"
)

// ErrFormat is returned for file names with an unknown extension.
var ErrFormat = errors.New("unknown network format")

// format returns the extension deciding the format of path and whether
// path is gzipped.
func format(path string) (string, bool) {
	gz := strings.HasSuffix(path, ".gz")
	if gz {
		path = strings.TrimSuffix(path, ".gz")
	}
	return strings.ToLower(filepath.Ext(path)), gz
}

func readNetwork(path string) (*aig.Manager, error) {
	ext, gz := format(path)
	if ext != ".aig" && ext != ".aag" && ext != ".blif" {
		return nil, fmt.Errorf("%s: %w", path, ErrFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if gz {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	var m *aig.Manager
	if ext == ".blif" {
		mod, err := blif.Read(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m = mod.M
	} else {
		a, err := aiger.Read(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		m = a.M
	}
	return m, nil
}

func writeNetwork(path string, m *aig.Manager) (err error) {
	ext, gz := format(path)
	var write func(io.Writer) error
	switch ext {
	case ".aig":
		write = aiger.MakeFor(m).WriteBinary
	case ".aag":
		write = aiger.MakeFor(m).WriteAscii
	case ".blif":
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if gz {
			name = strings.TrimSuffix(name, filepath.Ext(name))
		}
		write = func(w io.Writer) error { return blif.Write(w, m, name) }
	default:
		return fmt.Errorf("%s: %w", path, ErrFormat)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if !gz {
		return write(f)
	}
	zw := gzip.NewWriter(f)
	if err := write(zw); err != nil {
		return err
	}
	return zw.Close()
}
