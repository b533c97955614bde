// Package feed reads order batches from a watched directory. One file is
// one batch: comma-separated records `id,side,price,qty`, side "B" or "S".
package feed

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"mercury/domain/orderbook"
)

// Batch is one ordered unit of input, identified by its file name.
type Batch struct {
	Name   string
	Orders []orderbook.Order
}

type Reader struct {
	dir string
	log *logrus.Entry
}

func NewReader(dir string) (*Reader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("feed: stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("feed: %s is not a directory", dir)
	}
	return &Reader{
		dir: dir,
		log: logrus.WithField("component", "feed"),
	}, nil
}

// Pending lists batch files not yet processed, in ascending lexical
// order. isProcessed is consulted per file name.
func (r *Reader) Pending(isProcessed func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("feed: list watch dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if isProcessed != nil && isProcessed(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadBatch parses one batch file. Records with the wrong field count
// are skipped silently (a formatting quirk, not an error); an
// unrecognized side token or an unparseable integer fails the whole
// batch, since it signals corrupt input.
func (r *Reader) ReadBatch(name string) (Batch, error) {
	path := filepath.Join(r.dir, name)
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, fmt.Errorf("feed: open batch %s: %w", name, err)
	}
	defer f.Close()

	batch := Batch{Name: name}
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Split(sc.Text(), ",")
		if len(fields) != 4 {
			r.log.WithFields(logrus.Fields{"batch": name, "line": lineNo}).
				Debug("skipping malformed record")
			continue
		}
		side, err := orderbook.ParseSide(strings.TrimSpace(fields[1]))
		if err != nil {
			return Batch{}, fmt.Errorf("feed: batch %s line %d: %w", name, lineNo, err)
		}
		price, err := strconv.ParseInt(strings.TrimSpace(fields[2]), 10, 64)
		if err != nil {
			return Batch{}, fmt.Errorf("feed: batch %s line %d: bad price: %w", name, lineNo, err)
		}
		qty, err := strconv.ParseInt(strings.TrimSpace(fields[3]), 10, 64)
		if err != nil {
			return Batch{}, fmt.Errorf("feed: batch %s line %d: bad quantity: %w", name, lineNo, err)
		}
		batch.Orders = append(batch.Orders, orderbook.Order{
			ID:    strings.TrimSpace(fields[0]),
			Side:  side,
			Price: price,
			Qty:   qty,
		})
	}
	if err := sc.Err(); err != nil {
		return Batch{}, fmt.Errorf("feed: read batch %s: %w", name, err)
	}
	return batch, nil
}
