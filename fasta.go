package prosearch

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/klauspost/compress/zstd"
)

// openSeqFile opens a FASTA file, transparently unwrapping gzip or zstd
// compression selected by filename suffix.
func openSeqFile(fileName string) (io.Reader, func() error, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case strings.HasSuffix(fileName, ".gz"):
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return gz, func() error {
			gz.Close()
			return f.Close()
		}, nil
	case strings.HasSuffix(fileName, ".zst"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, nil, err
		}
		return zr, func() error {
			zr.Close()
			return f.Close()
		}, nil
	}
	return f, f.Close, nil
}

// ReadSequenceStore reads every sequence of a FASTA file (plain, gzip or
// zstd) into a fresh SequenceStore.
func ReadSequenceStore(fileName string) (*SequenceStore, error) {
	store := NewSequenceStore(0)
	err := scanFasta(fileName, func(name string, residues []byte) {
		store.Add(name, residues)
	})
	if err != nil {
		return nil, err
	}
	verbosef("loaded %d sequences (%d residues) from %s",
		store.Len(), store.ResidueCount(), fileName)
	return store, nil
}

// A Query is a named query sequence.
type Query struct {
	Name     string
	Residues []byte
}

// ReadQueries reads every sequence of a FASTA file as a query.
func ReadQueries(fileName string) ([]Query, error) {
	var queries []Query
	err := scanFasta(fileName, func(name string, residues []byte) {
		queries = append(queries, Query{Name: name, Residues: normalizeResidues(residues)})
	})
	if err != nil {
		return nil, err
	}
	return queries, nil
}

func scanFasta(fileName string, each func(name string, residues []byte)) error {
	r, closer, err := openSeqFile(fileName)
	if err != nil {
		return err
	}
	defer closer()

	sc := seqio.NewScanner(
		fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		each(s.ID, alphabet.LettersToBytes(s.Seq))
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("reading %s: %w", fileName, err)
	}
	return nil
}
