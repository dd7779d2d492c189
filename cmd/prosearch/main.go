// prosearch searches a protein database for sequences similar to a query
// using a seed-filter-extend-refine pipeline, and benchmarks the
// pipeline's stages against mutated queries with known ground truth.
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/ndaniels/prosearch"
	"github.com/ndaniels/prosearch/bench"
)

const (
	exitOK      = 0
	exitBadDB   = 1
	exitNoQuery = 2
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(exitBadDB)
	}
	switch os.Args[1] {
	case "search":
		runSearch(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	case "-h", "--help", "help":
		usage()
	default:
		log.Printf("unknown command %q", os.Args[1])
		usage()
		os.Exit(exitBadDB)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  prosearch search --db <fasta> [--query SEQ | --query-file FASTA] [flags]
  prosearch bench  --db <fasta> [k|filter|indel|spaced|all] [--csv out.csv]

The database and query files may be plain FASTA, gzip (.gz) or zstd (.zst).
`)
}

func runSearch(args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	db := fs.String("db", "", "database FASTA file")
	query := fs.String("query", "", "inline query sequence")
	queryFile := fs.String("query-file", "", "FASTA file of query sequences")
	modeName := fs.String("mode", "auto", "search mode: basic|diagonal|spaced|auto")
	k := fs.IntP("k", "k", prosearch.DefaultParams.K, "contiguous word length")
	topN := fs.IntP("n", "n", prosearch.DefaultParams.TopN, "number of hits to report")
	xDrop := fs.Int("x-drop", prosearch.DefaultParams.XDrop, "ungapped extension x-drop")
	pattern := fs.String("pattern", prosearch.DefaultParams.Pattern, "spaced seed pattern of 0s and 1s")
	minSupport := fs.Int("min-support", prosearch.DefaultParams.MinSupport, "minimum seeds on the best diagonal")
	paramsFile := fs.String("params", "", "JSONC parameter file; flags override it")
	verbose := fs.BoolP("verbose", "v", false, "progress chatter on stderr")
	fs.Parse(args)

	prosearch.Verbose = *verbose
	store := loadStore(*db)

	params := prosearch.DefaultParams
	if *paramsFile != "" {
		var err error
		params, err = prosearch.LoadParams(*paramsFile, params)
		if err != nil {
			log.Printf("%v", err)
			os.Exit(exitBadDB)
		}
	}

	// Flags the user set explicitly win over the parameter file.
	if fs.Changed("mode") || *paramsFile == "" {
		mode, err := prosearch.ParseMode(*modeName)
		if err != nil {
			log.Printf("%v", err)
			os.Exit(exitBadDB)
		}
		params.Mode = mode
	}
	if fs.Changed("k") {
		params.K = *k
	}
	if fs.Changed("n") {
		params.TopN = *topN
	}
	if fs.Changed("x-drop") {
		params.XDrop = *xDrop
	}
	if fs.Changed("pattern") {
		params.Pattern = *pattern
	}
	if fs.Changed("min-support") {
		params.MinSupport = *minSupport
	}

	queries := gatherQueries(*query, *queryFile)
	if len(queries) == 0 {
		log.Printf("%v; use --query or --query-file", prosearch.ErrNoQuery)
		os.Exit(exitNoQuery)
	}

	buildStart := time.Now()
	searcher, err := prosearch.NewSearcher(store, params)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(exitBadDB)
	}
	verbosef(*verbose, "index ready in %v", time.Since(buildStart))

	for _, q := range queries {
		fmt.Printf("\nquery %s (%d residues, mode %s, k=%d)\n",
			q.Name, len(q.Residues), params.Mode, params.K)
		start := time.Now()
		hits := searcher.Search(q.Residues)
		fmt.Printf("  search time: %v\n", time.Since(start))
		if len(hits) == 0 {
			fmt.Println("  no hits")
			continue
		}
		for rank, hit := range hits {
			fmt.Printf("  %2d. [score %4d] %s\n",
				rank+1, hit.Score, truncateName(store.Name(hit.Target), 50))
		}
	}
}

func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	db := fs.String("db", "", "database FASTA file")
	csvPath := fs.String("csv", "", "write scenario metrics to this CSV file")
	seed := fs.Int64("seed", 1, "query sampling seed")
	fs.Parse(args)

	task := bench.TaskAll
	if fs.NArg() > 0 {
		task = fs.Arg(0)
	}

	store := loadStore(*db)
	rng := rand.New(rand.NewSource(*seed))

	results, err := bench.Run(task, store, rng)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(exitBadDB)
	}
	if *csvPath != "" {
		if err := bench.WriteCSV(*csvPath, results); err != nil {
			log.Printf("writing %s: %v", *csvPath, err)
			os.Exit(exitBadDB)
		}
		fmt.Printf("\nwrote %d scenarios to %s\n", len(results), *csvPath)
	}
}

func loadStore(db string) *prosearch.SequenceStore {
	if db == "" {
		log.Print("no database given; use --db")
		os.Exit(exitBadDB)
	}
	start := time.Now()
	store, err := prosearch.ReadSequenceStore(db)
	if err != nil {
		log.Printf("loading database %s: %v", db, err)
		os.Exit(exitBadDB)
	}
	fmt.Printf("loaded %d sequences in %v\n", store.Len(), time.Since(start))
	return store
}

func gatherQueries(inline, file string) []prosearch.Query {
	var queries []prosearch.Query
	if inline != "" {
		queries = append(queries, prosearch.Query{
			Name:     "command-line",
			Residues: []byte(inline),
		})
	}
	if file != "" {
		fromFile, err := prosearch.ReadQueries(file)
		if err != nil {
			log.Printf("loading queries %s: %v", file, err)
			os.Exit(exitBadDB)
		}
		queries = append(queries, fromFile...)
	}
	return queries
}

func truncateName(name string, n int) string {
	if len(name) <= n {
		return name
	}
	return name[:n]
}

func verbosef(on bool, format string, v ...interface{}) {
	if on {
		fmt.Fprintf(os.Stderr, format+"\n", v...)
	}
}
