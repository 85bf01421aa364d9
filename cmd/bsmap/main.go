// bsmap maps bisulfite-converted short reads to a reference genome
// using a precomputed positional index (see cmd/bsmap-index). It
// supports single-end and paired-end input, and writes either SAM or
// a minimal tab-delimited format. Grounded on
// cmd/muscato/main.go+muscato/muscato.go's flag-overrides-config CLI
// shape, generalized from a multi-binary pipeline driver to a single
// in-process mapper.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/profile"

	"github.com/kshedden/bsmap/internal/align"
	"github.com/kshedden/bsmap/internal/config"
	"github.com/kshedden/bsmap/internal/fastq"
	"github.com/kshedden/bsmap/internal/index"
	"github.com/kshedden/bsmap/internal/pipeline"
	"github.com/kshedden/bsmap/internal/samout"
	"github.com/kshedden/bsmap/internal/seed"
)

const (
	exitOK       = 0
	exitUnknown  = 1
	exitConfig   = 2
	exitIO       = 3
	exitResource = 4
)

var logger *log.Logger

func main() {
	cfg := handleArgs()

	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(exitCodeFor(err))
	}

	runID, err := uuid.NewUUID()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogDir == "" {
		cfg.LogDir = path.Join("bsmap_logs", runID.String())
	}
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatal(err)
	}
	setupLog(cfg.LogDir)
	if err := cfg.Save(path.Join(cfg.LogDir, "config.json")); err != nil {
		logger.Printf("warning: could not save config snapshot: %v", err)
	}

	if cfg.CPUProfile != "" {
		p := profile.Start(profile.ProfilePath(cfg.CPUProfile))
		defer p.Stop()
	}

	if err := run(cfg); err != nil {
		logger.Print(err)
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(exitCodeFor(err))
	}
}

func setupLog(logDir string) {
	fid, err := os.Create(path.Join(logDir, "bsmap.log"))
	if err != nil {
		log.Fatal(err)
	}
	logger = log.New(fid, "", log.Ltime)
}

func handleArgs() *config.Config {
	ConfigFileName := flag.String("ConfigFileName", "", "JSON or TOML file containing configuration parameters")
	IndexPath := flag.String("IndexPath", "", "Path to the .dbindex file built by bsmap-index")
	OutputPath := flag.String("OutputPath", "", "Path to write mapping results")
	ReadFileName := flag.String("ReadFileName", "", "Single-end reads file (fastq, comma-separated for multiple files)")
	Mate1FileName := flag.String("Mate1FileName", "", "Paired-end mate 1 reads file")
	Mate2FileName := flag.String("Mate2FileName", "", "Paired-end mate 2 reads file")
	MaxMismatches := flag.Int("MaxMismatches", 0, "Maximum mismatches allowed per read")
	NReadsToProcess := flag.Int("NReadsToProcess", 0, "Maximum number of reads to process")
	BucketCap := flag.Int("BucketCap", 0, "Skip seed buckets larger than this after refinement")
	TopK := flag.Int("TopK", 0, "Candidates retained per mate before pairing (ties at the cutoff are also kept)")
	FragRange := flag.Int("FragRange", 0, "Maximum fragment length for a valid pair")
	NumThreads := flag.Int("NumThreads", 0, "Number of worker goroutines")
	Wildcard := flag.Bool("Wildcard", false, "Also search the G->A index for single-end reads")
	Adapter := flag.String("Adapter", "", "Adapter sequence to clip from the 3' end of reads")
	OutputFormat := flag.String("OutputFormat", "", "'sam' or 'mr', overriding the format OutputPath's suffix would select")
	WriteAmbiguous := flag.Bool("WriteAmbiguous", false, "Write ambiguously-mapped reads to a side file")
	WriteUnmapped := flag.Bool("WriteUnmapped", false, "Write unmapped reads to a side file")
	CompressAuxiliary := flag.Bool("CompressAuxiliary", false, "Snappy-compress the ambiguous/unmapped side files")
	LogDir := flag.String("LogDir", "", "Directory for the run's log file and config snapshot")
	CPUProfile := flag.String("CPUProfile", "", "Directory to write a CPU profile into")

	flag.Parse()

	var cfg *config.Config
	if *ConfigFileName != "" {
		var err error
		cfg, err = config.ReadConfig(*ConfigFileName)
		if err != nil {
			log.Fatal(err)
		}
	} else {
		cfg = new(config.Config)
	}

	if *IndexPath != "" {
		cfg.IndexPath = *IndexPath
	}
	if *OutputPath != "" {
		cfg.OutputPath = *OutputPath
	}
	if *ReadFileName != "" {
		cfg.ReadFileName = *ReadFileName
	}
	if *Mate1FileName != "" {
		cfg.Mate1FileName = *Mate1FileName
	}
	if *Mate2FileName != "" {
		cfg.Mate2FileName = *Mate2FileName
	}
	if *MaxMismatches != 0 {
		cfg.MaxMismatches = *MaxMismatches
	}
	if *NReadsToProcess != 0 {
		cfg.NReadsToProcess = *NReadsToProcess
	}
	if *BucketCap != 0 {
		cfg.BucketCap = *BucketCap
	}
	if *TopK != 0 {
		cfg.TopK = *TopK
	}
	if *FragRange != 0 {
		cfg.FragRange = *FragRange
	}
	if *NumThreads != 0 {
		cfg.NumThreads = *NumThreads
	}
	if *Wildcard {
		cfg.Wildcard = true
	}
	if *Adapter != "" {
		cfg.Adapter = *Adapter
	}
	if *OutputFormat != "" {
		cfg.OutputFormat = *OutputFormat
	}
	if *WriteAmbiguous {
		cfg.WriteAmbiguous = true
	}
	if *WriteUnmapped {
		cfg.WriteUnmapped = true
	}
	if *CompressAuxiliary {
		cfg.CompressAuxiliary = true
	}
	if *LogDir != "" {
		cfg.LogDir = *LogDir
	}
	if *CPUProfile != "" {
		cfg.CPUProfile = *CPUProfile
	}

	cfg.ApplyDefaults()
	return cfg
}

func exitCodeFor(err error) int {
	switch err.(type) {
	case *config.ConfigError:
		return exitConfig
	case *config.IOError:
		return exitIO
	case *config.ResourceError:
		return exitResource
	default:
		return exitUnknown
	}
}

func run(cfg *config.Config) error {
	logger.Printf("loading index from %s", cfg.IndexPath)
	pair, err := index.ReadFile(cfg.IndexPath)
	if err != nil {
		if errors.Is(err, syscall.ENOMEM) {
			return config.NewResourceError(err)
		}
		return config.NewIOError(cfg.IndexPath, err)
	}
	defer pair.Close()

	ctSeeder := seed.New(pair.CT, cfg.BucketCap)
	gaSeeder := seed.New(pair.GA, cfg.BucketCap)
	resolver := align.NewResolver(ctSeeder, gaSeeder, cfg.MaxMismatches, cfg.Wildcard)
	chromNames := pair.ChromNames
	chromLengths := pair.ChromLength

	out, err := os.Create(cfg.OutputPath)
	if err != nil {
		return config.NewIOError(cfg.OutputPath, err)
	}
	defer out.Close()

	var clipper *fastq.AdapterClipper
	if cfg.Adapter != "" {
		clipper = fastq.NewAdapterClipper([]byte(cfg.Adapter))
	}

	p := &pipeline.Pipeline{
		Resolver:      resolver,
		AdapterClip:   clipper,
		NumThreads:    cfg.NumThreads,
		MaxReads:      cfg.NReadsToProcess,
		Logger:        logger,
		TopK:          cfg.TopK,
		FragRange:     cfg.FragRange,
		MaxMismatches: cfg.MaxMismatches,
	}

	aux, err := openAuxWriters(cfg)
	if err != nil {
		return err
	}
	defer aux.close()

	if cfg.PairedEnd() {
		return runPaired(cfg, p, chromNames, chromLengths, out, aux)
	}
	return runSingle(cfg, p, chromNames, chromLengths, out, aux)
}

type auxWriters struct {
	ambiguous *samout.AuxWriter
	unmapped  *samout.AuxWriter
}

func (a *auxWriters) close() {
	if a.ambiguous != nil {
		a.ambiguous.Close()
	}
	if a.unmapped != nil {
		a.unmapped.Close()
	}
}

func openAuxWriters(cfg *config.Config) (*auxWriters, error) {
	var a auxWriters
	if cfg.WriteAmbiguous {
		fid, err := os.Create(cfg.OutputPath + "_amb")
		if err != nil {
			return nil, config.NewIOError(cfg.OutputPath+"_amb", err)
		}
		a.ambiguous = samout.NewAuxWriter(fid, cfg.CompressAuxiliary)
	}
	if cfg.WriteUnmapped {
		fid, err := os.Create(cfg.OutputPath + "_unmapped")
		if err != nil {
			return nil, config.NewIOError(cfg.OutputPath+"_unmapped", err)
		}
		a.unmapped = samout.NewAuxWriter(fid, cfg.CompressAuxiliary)
	}
	return &a, nil
}

func runSingle(cfg *config.Config, p *pipeline.Pipeline, chromNames []string, chromLengths []uint32, out *os.File, aux *auxWriters) error {
	r, err := fastq.NewReader(cfg.ReadFileName)
	if err != nil {
		return config.NewIOError(cfg.ReadFileName, err)
	}
	defer r.Close()

	results, err := p.RunSingleEnd(r)
	if err != nil {
		return config.NewIOError(cfg.ReadFileName, err)
	}

	writeSingle, flush, err := newSingleWriter(cfg, chromNames, chromLengths, out)
	if err != nil {
		return err
	}
	defer flush()

	for _, res := range results {
		if err := writeSingle(res); err != nil {
			return config.NewIOError(cfg.OutputPath, err)
		}
		class := res.Match.Classify(cfg.MaxMismatches)
		if class == align.Ambiguous && aux.ambiguous != nil {
			aux.ambiguous.Write(res.Name, res.Seq)
		}
		if class == align.Unmapped && aux.unmapped != nil {
			aux.unmapped.Write(res.Name, res.Seq)
		}
	}

	logger.Printf("mapped %d reads", len(results))
	return nil
}

func newSingleWriter(cfg *config.Config, chromNames []string, chromLengths []uint32, out *os.File) (func(pipeline.SingleResult) error, func(), error) {
	if cfg.ResolvedOutputFormat() == "mr" {
		w := samout.NewMRWriter(out)
		return func(res pipeline.SingleResult) error {
				return w.WriteSingle(res.Name, chromNames, res.Seq, res.Match, cfg.MaxMismatches)
			}, func() { w.Flush() }, nil
	}

	w, err := samout.NewSAMWriter(out, chromNames, chromLengths)
	if err != nil {
		return nil, nil, fmt.Errorf("building sam writer: %w", err)
	}
	return func(res pipeline.SingleResult) error {
		return w.WriteSingle(res.Name, res.Seq, res.Qual, res.Match, cfg.MaxMismatches)
	}, func() {}, nil
}

func runPaired(cfg *config.Config, p *pipeline.Pipeline, chromNames []string, chromLengths []uint32, out *os.File, aux *auxWriters) error {
	r1, err := fastq.NewReader(cfg.Mate1FileName)
	if err != nil {
		return config.NewIOError(cfg.Mate1FileName, err)
	}
	defer r1.Close()
	r2, err := fastq.NewReader(cfg.Mate2FileName)
	if err != nil {
		return config.NewIOError(cfg.Mate2FileName, err)
	}
	defer r2.Close()

	results, err := p.RunPairedEnd(r1, r2)
	if err != nil {
		return config.NewIOError(cfg.Mate1FileName, err)
	}

	writePair, flush, err := newPairWriter(cfg, chromNames, chromLengths, out)
	if err != nil {
		return err
	}
	defer flush()

	for _, res := range results {
		if err := writePair(res); err != nil {
			return config.NewIOError(cfg.OutputPath, err)
		}
		class := res.Result.Classify(cfg.MaxMismatches)
		if class == align.Ambiguous && aux.ambiguous != nil {
			aux.ambiguous.Write(res.Name, res.Seq1)
		}
		if class == align.Unmapped && aux.unmapped != nil {
			aux.unmapped.Write(res.Name, res.Seq1)
		}
	}

	logger.Printf("mapped %d read pairs", len(results))
	return nil
}

func newPairWriter(cfg *config.Config, chromNames []string, chromLengths []uint32, out *os.File) (func(pipeline.PairResult) error, func(), error) {
	if cfg.ResolvedOutputFormat() == "mr" {
		w := samout.NewMRWriter(out)
		return func(res pipeline.PairResult) error {
				return w.WritePair(res.Name, chromNames, res.Seq1, res.Seq2, res.Result, cfg.MaxMismatches)
			}, func() { w.Flush() }, nil
	}

	w, err := samout.NewSAMWriter(out, chromNames, chromLengths)
	if err != nil {
		return nil, nil, fmt.Errorf("building sam writer: %w", err)
	}
	return func(res pipeline.PairResult) error {
		return w.WritePair(res.Name, res.Seq1, res.Qual1, res.Seq2, res.Qual2, res.Result, cfg.MaxMismatches)
	}, func() {}, nil
}
