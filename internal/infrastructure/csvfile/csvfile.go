// Package csvfile lee y escribe archivos CSV en la codificación indicada
// (utf-8 por defecto; shift_jis, euc-jp, windows-1252 y demás etiquetas WHATWG).
package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lookup resuelve la etiqueta de codificación. nil significa UTF-8 sin transformar.
func lookup(name string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return nil, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("codificación %q no soportada: %w", name, err)
	}
	return enc, nil
}

// Read decodifica r y devuelve la cabecera y las filas. Un archivo vacío devuelve cabecera nil.
func Read(r io.Reader, encodingName string) (header []string, rows [][]string, err error) {
	enc, err := lookup(encodingName)
	if err != nil {
		return nil, nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1

	header, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("leer cabecera CSV: %w", err)
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("leer CSV: %w", err)
		}
		rows = append(rows, rec)
	}
	return header, rows, nil
}

// Write codifica cabecera y filas en w.
func Write(w io.Writer, encodingName string, header []string, rows [][]string) error {
	enc, err := lookup(encodingName)
	if err != nil {
		return err
	}
	var tw io.WriteCloser
	if enc != nil {
		tw = transform.NewWriter(w, enc.NewEncoder())
		w = tw
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("escribir CSV: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("escribir CSV: %w", err)
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("codificar CSV: %w", err)
		}
	}
	return nil
}

// ReadFile abre path y delega en Read.
func ReadFile(path, encodingName string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Read(f, encodingName)
}

// WriteFile escribe en un temporal junto a path y lo renombra, para no dejar exportaciones a medias.
func WriteFile(path, encodingName string, header []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// CreateTemp crea con 0600.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := Write(tmp, encodingName, header, rows); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
